package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProviderMismatch   = errors.New("account exists with a different sign-in method")
	ErrAuthRequired       = errors.New("authentication required")
)

// Service handles credential storage and verification.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, config: cfg}
}

// normalizeEmail lowercases the address so lookups are case-insensitive.
// One convention, applied at every entry point.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user under the credentials provider. The
// unique email index settles concurrent signups; the loser gets
// ErrEmailTaken.
func (s *Service) Register(name, email, password string) (*entities.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	// RFC 5321 caps addresses at 254 bytes
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	var existing entities.User
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Provider:     entities.ProviderCredentials,
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies email/password credentials. An unknown email and
// a wrong password both return ErrInvalidCredentials so the caller cannot
// probe which addresses are registered. Users created under an external
// provider have no password hash and fail the same way.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	email = normalizeEmail(email)

	var user entities.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// LoginWithProvider resolves an external-provider login. A first-time
// email provisions a new user under that provider; an existing user
// stored under a different provider is rejected with ErrProviderMismatch
// rather than silently linked or duplicated.
func (s *Service) LoginWithProvider(email, name string, provider entities.AuthProvider) (*entities.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	var user entities.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Provider != provider {
			return nil, ErrProviderMismatch
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user = entities.User{
		Name:     name,
		Email:    email,
		Provider: provider,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent first login with the same email: re-read the winner.
			return s.LoginWithProvider(email, name, provider)
		}
		return nil, fmt.Errorf("failed to provision provider user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
