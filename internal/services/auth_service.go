package services

import (
	"fmt"
	"log"
	"time"

	"market/internal/models"
	"market/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and token validation.
type AuthService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
	}
}

// Register creates a user with its profile and empty cart, then adopts the
// registering session's anonymous state: guest cart lines are copied into
// the new cart and guest orders into the account's order history, after
// which the guest rows are deleted so no session-keyed data is left behind.
func (s *AuthService) Register(user *models.User, phone, sessionKey string) (*models.Profile, error) {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return nil, fmt.Errorf("username '%s' already taken", user.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return nil, fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	profile := &models.Profile{
		UserID: user.ID,
		Active: true,
		Phone:  phone,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	cart := &models.Cart{ProfileID: profile.ID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	if sessionKey != "" {
		if err := s.mergeGuestState(sessionKey, cart, profile); err != nil {
			// The account exists at this point; losing the guest cart is
			// recoverable, failing the registration is not.
			log.Printf("Failed to merge guest state for new profile %s: %v", profile.ID, err)
		}
	}

	return profile, nil
}

// mergeGuestState moves a session's cart lines and order history onto the
// freshly registered profile, then purges the guest rows.
func (s *AuthService) mergeGuestState(sessionKey string, cart *models.Cart, profile *models.Profile) error {
	guestItems, err := s.cartRepo.GuestItems(sessionKey)
	if err != nil {
		return err
	}
	for _, guestItem := range guestItems {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: guestItem.ProductID,
			Quantity:  guestItem.Quantity,
		}
		if err := s.cartRepo.SaveItem(item); err != nil {
			return err
		}
	}
	if err := s.cartRepo.ClearGuest(sessionKey); err != nil {
		return err
	}

	guestOrders, err := s.orderRepo.GetBySessionKey(sessionKey)
	if err != nil {
		return err
	}
	for _, guestOrder := range guestOrders {
		order := &models.Order{
			ProfileID:      profile.ID,
			Status:         guestOrder.Status,
			PaymentMethod:  guestOrder.PaymentMethod,
			DeliveryMethod: guestOrder.DeliveryMethod,
			Total:          guestOrder.Total,
			Name:           guestOrder.Name,
			Phone:          guestOrder.Phone,
			City:           guestOrder.City,
			Address:        guestOrder.Address,
			Error:          guestOrder.Error,
			Active:         guestOrder.Active,
		}
		for _, guestItem := range guestOrder.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: guestItem.ProductID,
				Quantity:  guestItem.Quantity,
				UnitPrice: guestItem.UnitPrice,
			})
		}
		if err := s.orderRepo.Create(order); err != nil {
			return err
		}
	}
	return s.orderRepo.DeleteBySessionKey(sessionKey)
}

// Profile retrieves the caller's own profile with its user account.
func (s *AuthService) Profile(profileID string) (*models.Profile, error) {
	return s.profileRepo.GetByID(profileID)
}

// UpdateAccount lets a profile's owner change their contact details. Only
// the fields the caller actually sent are written; the moderator-managed
// flags are untouched.
func (s *AuthService) UpdateAccount(profileID string, avatar, phone *string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		profile.Avatar = *avatar
	}
	if phone != nil {
		profile.Phone = *phone
	}
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Login authenticates a user and returns a JWT token if successful.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// It's good practice not to reveal if the username exists or not for security
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	profile, err := s.profileRepo.GetByUserID(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"profile_id": profile.ID,
		"admin":      profile.Admin,
		"exp":        time.Now().Add(s.tokenDurat).Unix(),
		"iat":        time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
