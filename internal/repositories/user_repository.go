package repositories

import "shopapi/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	FindByUsernameOrEmail(username, email string) (*models.User, error)
}
