package auth

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestService_Register(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			userName: "Alex",
			email:    "alex@example.com",
			password: "secret123",
			wantErr:  nil,
		},
		{
			name:     "missing email",
			email:    "",
			password: "secret123",
			wantErr:  ErrEmailRequired,
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "secret123",
			wantErr:  ErrEmailInvalid,
		},
		{
			name:     "missing password",
			email:    "other@example.com",
			password: "",
			wantErr:  ErrPasswordRequired,
		},
		{
			name:     "password too short",
			email:    "other@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(tt.userName, tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Register() unexpected error = %v", err)
				return
			}
			if user == nil {
				t.Fatal("Register() returned nil user")
			}
			if user.Provider != entities.ProviderCredentials {
				t.Errorf("user.Provider = %v, want credentials", user.Provider)
			}
			if user.PasswordHash == "" {
				t.Error("user.PasswordHash is empty")
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in plaintext")
			}
		})
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	if _, err := svc.Register("Alex", "alex@example.com", "secret123"); err != nil {
		t.Fatalf("failed to create first user: %v", err)
	}

	if _, err := svc.Register("Other", "alex@example.com", "different456"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() duplicate email error = %v, want ErrEmailTaken", err)
	}

	// Case only differs: still the same account
	if _, err := svc.Register("Other", "ALEX@Example.COM", "different456"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() case-variant email error = %v, want ErrEmailTaken", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	if _, err := svc.Register("Alex", "alex@example.com", "secret123"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "correct credentials",
			email:    "alex@example.com",
			password: "secret123",
			wantErr:  nil,
		},
		{
			name:     "case-insensitive email",
			email:    "Alex@Example.com",
			password: "secret123",
			wantErr:  nil,
		},
		{
			name:     "wrong password",
			email:    "alex@example.com",
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "secret123",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "empty password",
			email:    "alex@example.com",
			password: "",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Authenticate() unexpected error = %v", err)
				return
			}
			if user.Email != "alex@example.com" {
				t.Errorf("user.Email = %v, want alex@example.com", user.Email)
			}
		})
	}
}

func TestService_Authenticate_ProviderUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	if _, err := svc.LoginWithProvider("google-user@example.com", "G User", entities.ProviderGoogle); err != nil {
		t.Fatalf("failed to provision provider user: %v", err)
	}

	// Provider users have no password; the failure is indistinguishable
	// from a wrong password
	if _, err := svc.Authenticate("google-user@example.com", "anypassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() on provider user = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_LoginWithProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	// First login provisions the user
	user, err := svc.LoginWithProvider("google-user@example.com", "G User", entities.ProviderGoogle)
	if err != nil {
		t.Fatalf("LoginWithProvider() error = %v", err)
	}
	if user.Provider != entities.ProviderGoogle {
		t.Errorf("user.Provider = %v, want google", user.Provider)
	}

	// Second login finds the same user
	again, err := svc.LoginWithProvider("google-user@example.com", "G User", entities.ProviderGoogle)
	if err != nil {
		t.Fatalf("LoginWithProvider() second call error = %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second login user ID = %d, want %d", again.ID, user.ID)
	}
}

func TestService_LoginWithProvider_Mismatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 10})

	if _, err := svc.Register("Alex", "alex@example.com", "secret123"); err != nil {
		t.Fatalf("failed to create credentials user: %v", err)
	}

	// A credentials account cannot be hijacked through the provider path
	if _, err := svc.LoginWithProvider("alex@example.com", "Alex", entities.ProviderGoogle); !errors.Is(err, ErrProviderMismatch) {
		t.Errorf("LoginWithProvider() on credentials account = %v, want ErrProviderMismatch", err)
	}
}

func TestService_ConcurrentRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, config.Auth{BcryptCost: 4})

	const attempts = 5
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := svc.Register("Racer", "race@example.com", "secret123")
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("concurrent Register() error = %v, want ErrEmailTaken", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("concurrent Register() succeeded %d times, want exactly 1", succeeded)
	}

	var count int64
	db.Model(&entities.User{}).Where("email = ?", "race@example.com").Count(&count)
	if count != 1 {
		t.Errorf("stored %d users for the raced email, want 1", count)
	}
}
