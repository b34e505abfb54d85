package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	price := decimal.RequireFromString("19.99")

	p, err := NewProduct(" Laptop ", price, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.True(t, price.Equal(p.Price))
	assert.Equal(t, int64(1), p.CategoryID)
	assert.Equal(t, int64(2), p.StatusID)
	assert.False(t, p.CreatedAt.IsZero())

	tests := []struct {
		name       string
		pName      string
		price      string
		categoryID int64
		statusID   int64
		wantErr    error
	}{
		{"empty name", "", "1", 1, 1, ErrEmptyName},
		{"missing category", "Laptop", "1", 0, 1, ErrInvalidID},
		{"missing status", "Laptop", "1", 1, 0, ErrInvalidID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.pName, decimal.RequireFromString(tc.price), tc.categoryID, tc.statusID)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNewProductAcceptsAnyNumericPrice(t *testing.T) {
	for _, price := range []string{"0", "-5.25", "123456.78"} {
		_, err := NewProduct("Item", decimal.RequireFromString(price), 1, 1)
		assert.NoError(t, err, price)
	}
}

func TestProductApply(t *testing.T) {
	newProduct := func() *Product {
		p, err := NewProduct("Laptop", decimal.NewFromInt(100), 1, 1)
		require.NoError(t, err)
		p.Category = &Category{ID: 1, Name: "Electronics"}
		p.Status = &Status{ID: 1, Name: "Available"}
		return p
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		p := newProduct()
		price := decimal.RequireFromString("89.50")

		require.NoError(t, p.Apply(ProductChanges{Price: &price}))

		assert.Equal(t, "Laptop", p.Name)
		assert.True(t, price.Equal(p.Price))
		assert.NotNil(t, p.Category)
		assert.NotNil(t, p.Status)
	})

	t.Run("changing references clears loaded relations", func(t *testing.T) {
		p := newProduct()
		categoryID := int64(3)

		require.NoError(t, p.Apply(ProductChanges{CategoryID: &categoryID}))

		assert.Equal(t, int64(3), p.CategoryID)
		assert.Nil(t, p.Category)
		assert.NotNil(t, p.Status)
	})

	t.Run("invalid changes leave product untouched", func(t *testing.T) {
		p := newProduct()
		empty := ""
		price := decimal.NewFromInt(5)

		err := p.Apply(ProductChanges{Name: &empty, Price: &price})

		assert.True(t, errors.Is(err, ErrEmptyName))
		assert.Equal(t, "Laptop", p.Name)
		assert.True(t, decimal.NewFromInt(100).Equal(p.Price))
	})
}

func TestProductImageURLs(t *testing.T) {
	p := &Product{Media: []*Media{
		{URLs: MediaURLs{Original: "http://cdn/1.jpg"}},
		{URLs: MediaURLs{}},
		{URLs: MediaURLs{Original: "http://cdn/2.jpg"}},
	}}

	assert.Equal(t, []string{"http://cdn/1.jpg", "http://cdn/2.jpg"}, p.ImageURLs())
	assert.Empty(t, (&Product{}).ImageURLs())
}
