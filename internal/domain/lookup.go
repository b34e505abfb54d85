package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Lookup is a named reference record that products point at.
// Categories and statuses share this shape.
type Lookup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups products.
type Category = Lookup

// Status describes the availability of a product.
type Status = Lookup

// LookupKind describes one of the lookup tables and how products reference it.
type LookupKind struct {
	// Name is the singular resource name used in logs ("category").
	Name string
	// Label is the capitalized name used in user-facing messages ("Category").
	Label string
	// Table is the backing table.
	Table string
	// ProductColumn is the foreign key column on products.
	ProductColumn string
}

var (
	// CategoryKind describes product categories.
	CategoryKind = LookupKind{
		Name:          "category",
		Label:         "Category",
		Table:         "product_categories",
		ProductColumn: "product_category_id",
	}

	// StatusKind describes product statuses.
	StatusKind = LookupKind{
		Name:          "status",
		Label:         "Status",
		Table:         "product_statuses",
		ProductColumn: "product_status_id",
	}
)

// NewLookup creates a lookup record with the given name.
func NewLookup(name string) (*Lookup, error) {
	now := time.Now().UTC()
	l := &Lookup{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Rename changes the name and bumps UpdatedAt.
func (l *Lookup) Rename(name string) error {
	prev := l.Name
	l.Name = strings.TrimSpace(name)
	if err := l.Validate(); err != nil {
		l.Name = prev
		return err
	}
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks that the name is present and within limits.
func (l *Lookup) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyName)
	}
	if utf8.RuneCountInString(l.Name) > MaxNameLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNameTooLong)
	}
	return nil
}

// CategoryCount pairs a category name with the number of products in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
