package middleware

import (
	"log"
	"time"

	"market/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the anonymous session token.
const SessionCookie = "session_key"

// GuestSession tracks anonymous visitors. A request without a live session
// cookie gets a fresh 128-bit token recorded in the session store; requests
// with a live one get its TTL refreshed. The key is exposed to handlers via
// c.Locals("session_key").
func GuestSession(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		key := c.Cookies(SessionCookie)

		if key != "" {
			ok, err := store.Exists(ctx, key)
			if err != nil {
				log.Printf("Session lookup failed: %v", err)
			}
			if !ok {
				key = "" // expired or foreign key, reissue
			}
		}

		if key == "" {
			issued, err := store.Issue(ctx)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not establish session",
				})
			}
			key = issued
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    key,
				HTTPOnly: true,
				SameSite: "Lax",
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		} else if err := store.Refresh(ctx, key); err != nil {
			log.Printf("Session refresh failed: %v", err)
		}

		c.Locals("session_key", key)
		return c.Next()
	}
}

// SessionKey returns the anonymous session token stored by GuestSession.
func SessionKey(c *fiber.Ctx) string {
	if v, ok := c.Locals("session_key").(string); ok {
		return v
	}
	return ""
}
