package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Jane Doe ", " Jane@Example.COM ", "hashedpassword123", false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Name != "Jane Doe" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}

	if user.Email != "jane@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}

	if user.IsAdmin {
		t.Error("Expected regular user")
	}

	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	// Test invalid inputs
	if _, err := NewUser("", "jane@example.com", "hash", false); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	if _, err := NewUser(strings.Repeat("a", MaxNameLength+1), "jane@example.com", "hash", false); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("Expected error %v, got %v", ErrNameTooLong, err)
	}

	if _, err := NewUser("Jane", "  ", "hash", false); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected error %v, got %v", ErrValidation, err)
	}

	if _, err := NewUser("Jane", "jane@example.com", "", false); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected error %v, got %v", ErrValidation, err)
	}
}

func TestNewUserAdmin(t *testing.T) {
	user, err := NewUser("Admin", "admin@demo.com", "hash", true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !user.IsAdmin {
		t.Error("Expected admin flag to be kept")
	}
}
