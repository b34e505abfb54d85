package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyName is returned when a required name is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNameTooLong is returned when a name exceeds MaxNameLength characters.
	ErrNameTooLong = errors.New("name is too long")
)

// MaxNameLength is the maximum number of characters allowed in names
// of users, products, categories and statuses.
const MaxNameLength = 255
