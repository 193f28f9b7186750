package middleware

import (
	"log"
	"strings"

	"market/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := bearerClaims(c, authService)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or missing token",
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("profile_id", claims["profile_id"])
		c.Locals("is_admin", claims["admin"] == true)

		return c.Next()
	}
}

// OptionalAuth populates the auth locals when a valid token is present but
// lets anonymous requests through. Storefront routes use it to serve both
// registered and guest customers.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := bearerClaims(c, authService)
		if err == nil {
			c.Locals("user_id", claims["user_id"])
			c.Locals("username", claims["username"])
			c.Locals("profile_id", claims["profile_id"])
			c.Locals("is_admin", claims["admin"] == true)
		}
		return c.Next()
	}
}

// AdminRequired gates the moderator console. Anyone without a valid token
// carrying the admin flag is denied, authenticated or not.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := bearerClaims(c, authService)
		if err != nil || claims["admin"] != true {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Moderator access required",
			})
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("profile_id", claims["profile_id"])
		c.Locals("is_admin", true)

		return c.Next()
	}
}

// bearerClaims extracts and validates the Bearer token of a request.
func bearerClaims(c *fiber.Ctx, authService *services.AuthService) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
	}

	return authService.ValidateToken(parts[1])
}

// ProfileID returns the authenticated profile id stored by the auth
// middleware, or "" for anonymous requests.
func ProfileID(c *fiber.Ctx) string {
	if v, ok := c.Locals("profile_id").(string); ok {
		return v
	}
	return ""
}
