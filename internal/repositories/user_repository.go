package repositories

import "market/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	SearchByUsername(query string) ([]models.User, error)
}

// ProfileRepository defines the interface for profile data access.
// SetAdmin is the only way role membership changes; profile updates through
// Update never touch the admin flag.
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByID(id string) (*models.Profile, error)
	GetByUserID(userID string) (*models.Profile, error)
	GetAll() ([]models.Profile, error)
	Update(profile *models.Profile) error
	SetAdmin(id string, admin bool) error
}
