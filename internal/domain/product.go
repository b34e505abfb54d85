package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price column stores.
const PriceScale int32 = 2

// MaxPrice is the largest absolute price that fits the price column.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Product is a catalog entry. It references exactly one category and one
// status by ID; Category and Status are populated when the product is loaded
// with its relations and stay nil if the referenced row no longer exists.
type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"product_category_id"`
	StatusID   int64           `json:"product_status_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Category *Category `json:"category"`
	Status   *Status   `json:"status"`
	Media    []*Media  `json:"media"`
}

// ProductChanges is a partial update. Nil fields are left untouched.
type ProductChanges struct {
	Name       *string
	Price      *decimal.Decimal
	CategoryID *int64
	StatusID   *int64
}

// NewProduct creates a product with the given attributes.
func NewProduct(name string, price decimal.Decimal, categoryID, statusID int64) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		Name:       strings.TrimSpace(name),
		Price:      price,
		CategoryID: categoryID,
		StatusID:   statusID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply copies the non-nil fields of c onto the product and validates the result.
// The product is left unchanged when validation fails.
func (p *Product) Apply(c ProductChanges) error {
	next := *p
	if c.Name != nil {
		next.Name = strings.TrimSpace(*c.Name)
	}
	if c.Price != nil {
		next.Price = *c.Price
	}
	if c.CategoryID != nil {
		next.CategoryID = *c.CategoryID
		next.Category = nil
	}
	if c.StatusID != nil {
		next.StatusID = *c.StatusID
		next.Status = nil
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*p = next
	return nil
}

// Validate checks the product invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyName)
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrNameTooLong)
	}
	if p.CategoryID <= 0 {
		return fmt.Errorf("%w: category %w", ErrValidation, ErrInvalidID)
	}
	if p.StatusID <= 0 {
		return fmt.Errorf("%w: status %w", ErrValidation, ErrInvalidID)
	}
	return nil
}

// ImageURLs returns the URL of every attached original image, in upload order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Media))
	for _, m := range p.Media {
		if m.URLs.Original != "" {
			urls = append(urls, m.URLs.Original)
		}
	}
	return urls
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	// Search matches product, category or status names (case-insensitive substring).
	Search     string
	CategoryID *int64
	StatusID   *int64
}
