package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

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

// Create creates a new user in the database. A unique-index violation on
// username or email surfaces as ErrDuplicateKey; this requires the DB to
// be opened with TranslateError enabled.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", user.Username, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsernameOrEmail retrieves a user whose username or email matches.
func (r *GORMUserRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ? OR email = ?", username, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s/%s: %w", username, email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by username or email: %w", err)
	}
	return &user, nil
}
