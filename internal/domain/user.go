package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// User represents an account that can authenticate against the API.
// Only users with IsAdmin set may use the catalog write endpoints.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a normalized email address and the given
// password hash. The caller is responsible for hashing the password.
func NewUser(name, email, hashedPassword string, isAdmin bool) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Name:           strings.TrimSpace(name),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		IsAdmin:        isAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the invariants a stored user must satisfy.
func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyName)
	}
	if utf8.RuneCountInString(u.Name) > MaxNameLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNameTooLong)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if u.HashedPassword == "" {
		return fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
	}
	return nil
}

// NormalizeEmail trims whitespace and lowercases an email address so that
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
