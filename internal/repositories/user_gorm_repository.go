package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s not found", username)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// SearchByUsername retrieves users whose username contains the query.
func (r *GORMUserRepository) SearchByUsername(query string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("username LIKE ?", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// Create creates a new profile.
func (r *GORMProfileRepository) Create(profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *GORMProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("User").First(&profile, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get profile by ID %s: %w", id, err)
	}
	return &profile, nil
}

// GetByUserID retrieves the profile attached to a user account.
func (r *GORMProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile for user %s not found", userID)
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// GetAll retrieves all profiles with their users. Used by the moderator
// console.
func (r *GORMProfileRepository) GetAll() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Preload("User").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get all profiles: %w", err)
	}
	return profiles, nil
}

// Update saves profile fields. The admin flag is deliberately excluded;
// role changes go through SetAdmin.
func (r *GORMProfileRepository) Update(profile *models.Profile) error {
	res := r.db.Model(&models.Profile{}).Where("id = ?", profile.ID).
		Select("avatar", "phone", "active").Updates(profile)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile with ID %s not found for update", profile.ID)
	}
	return nil
}

// SetAdmin grants or revokes moderator membership.
func (r *GORMProfileRepository) SetAdmin(id string, admin bool) error {
	res := r.db.Model(&models.Profile{}).Where("id = ?", id).Update("admin", admin)
	if res.Error != nil {
		return fmt.Errorf("failed to set admin flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile with ID %s not found", id)
	}
	return nil
}
