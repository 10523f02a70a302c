package services

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const hashCost = 10

const msgUserExists = "Username or email already exists"

// Notifier dispatches a welcome message to a freshly signed-up user.
// Implementations are best-effort: a failure never affects the signup.
type Notifier interface {
	SendWelcome(email, username string) error
}

// UserService handles business logic for account signup.
type UserService struct {
	repo     repositories.UserRepository
	notifier Notifier
	logger   zerolog.Logger
	validate *validator.Validate
}

// NewUserService creates a new UserService. The notifier may be nil, in
// which case no welcome message is sent.
func NewUserService(repo repositories.UserRepository, notifier Notifier, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(),
	}
}

// SignupInput is the payload for creating an account.
type SignupInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup validates the input, enforces username/email uniqueness, stores
// the account with a bcrypt-hashed password, and triggers the welcome
// notification. The pre-check only serves a friendlier error; the store's
// unique indexes are what actually close the check-then-insert race, and
// a losing insert is reported as the same conflict.
func (s *UserService) Signup(input SignupInput) (*models.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, asValidationError(err)
	}

	existing, err := s.repo.FindByUsernameOrEmail(input.Username, input.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError(err)
	}
	if existing != nil {
		// Do not reveal which of the two fields collided.
		return nil, &ConflictError{Reason: msgUserExists}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, &ConflictError{Reason: msgUserExists}
		}
		return nil, storeError(err)
	}

	// The signup has succeeded at this point; notification failures are
	// logged with a correlation id and swallowed.
	s.sendWelcome(user)

	return user, nil
}

func (s *UserService) sendWelcome(user *models.User) {
	if s.notifier == nil {
		return
	}
	signupID := uuid.New().String()
	if err := s.notifier.SendWelcome(user.Email, user.Username); err != nil {
		s.logger.Warn().
			Err(err).
			Str("signup_id", signupID).
			Str("email", user.Email).
			Msg("welcome notification failed")
		return
	}
	s.logger.Info().
		Str("signup_id", signupID).
		Str("email", user.Email).
		Msg("welcome notification dispatched")
}
