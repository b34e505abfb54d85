package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/media"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 5 * 1024 * 1024

type productFixture struct {
	catalog    *mocks.Catalog
	storage    *mocks.MemoryStorage
	tx         *mocks.MockTransactor
	svc        service.ProductService
	categories []*domain.Lookup
	statuses   []*domain.Lookup
}

func newProductFixture() *productFixture {
	f := &productFixture{
		catalog: mocks.NewCatalog(),
		storage: mocks.NewMemoryStorage(),
		tx:      &mocks.MockTransactor{},
	}
	f.categories = f.catalog.Categories.Seed("Electronics", "Books")
	f.statuses = f.catalog.Statuses.Seed("Available", "Sold out")
	library := media.NewLibrary(f.storage, nil, testMaxUpload, testLogger)
	f.svc = service.NewProductService(
		f.tx,
		f.catalog.Products,
		f.catalog.Categories,
		f.catalog.Statuses,
		f.catalog.Media,
		library,
		testLogger,
	)
	return f
}

func (f *productFixture) input(name, price string) service.ProductInput {
	return service.ProductInput{
		Name:       strPtr(name),
		Price:      strPtr(price),
		CategoryID: strPtr(fmt.Sprint(f.categories[0].ID)),
		StatusID:   strPtr(fmt.Sprint(f.statuses[0].ID)),
	}
}

func testImage(t *testing.T, name string) media.Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(40, 30, color.NRGBA{B: 255, A: 255}), imaging.JPEG))
	return media.Upload{FileName: name, Size: int64(buf.Len()), Data: buf.Bytes()}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with images", func(t *testing.T) {
		f := newProductFixture()
		in := f.input("Laptop", "999.99")
		in.Images = []media.Upload{testImage(t, "front.jpg"), testImage(t, "back.jpg")}

		p, err := f.svc.Create(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, "Laptop", p.Name)
		assert.True(t, decimal.RequireFromString("999.99").Equal(p.Price))
		require.NotNil(t, p.Category)
		assert.Equal(t, "Electronics", p.Category.Name)
		require.NotNil(t, p.Status)
		assert.Equal(t, "Available", p.Status.Name)

		require.Len(t, p.Media, 2)
		assert.Equal(t, "front.jpg", p.Media[0].FileName)
		assert.NotEmpty(t, p.Media[0].URLs.Thumb)
		assert.Len(t, p.ImageURLs(), 2)
		assert.Len(t, f.storage.Keys(), 6)
		assert.Equal(t, 1, f.tx.Calls)
	})

	t.Run("without images", func(t *testing.T) {
		f := newProductFixture()

		p, err := f.svc.Create(ctx, f.input("Novel", "12"))
		require.NoError(t, err)
		assert.Empty(t, p.Media)
		assert.NotNil(t, p.Media)
		assert.Empty(t, p.ImageURLs())
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		f := newProductFixture()

		_, err := f.svc.Create(ctx, service.ProductInput{
			Price:      strPtr("cheap"),
			CategoryID: strPtr("999"),
			StatusID:   strPtr("abc"),
			Images:     []media.Upload{{FileName: "doc.pdf", Data: []byte("%PDF-1.4")}},
		})
		fields := requireValidation(t, err)
		assert.Equal(t, []string{"The name field is required."}, fields["name"])
		assert.Equal(t, []string{"The price field must be a number."}, fields["price"])
		assert.Equal(t, []string{"The selected product category id is invalid."}, fields["product_category_id"])
		assert.Equal(t, []string{"The product status id field must be an integer."}, fields["product_status_id"])
		assert.Equal(t, []string{"The images.0 field must be an image."}, fields["images.0"])
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("price outside the stored range", func(t *testing.T) {
		tests := []struct {
			price   string
			wantMsg string
		}{
			{"1e15", "The price field must be between -9999999999.99 and 9999999999.99."},
			{"-10000000000", "The price field must be between -9999999999.99 and 9999999999.99."},
			{"1.239", "The price field must not have more than 2 decimal places."},
		}
		for _, tt := range tests {
			t.Run(tt.price, func(t *testing.T) {
				f := newProductFixture()

				_, err := f.svc.Create(ctx, f.input("Laptop", tt.price))
				fields := requireValidation(t, err)
				assert.Equal(t, []string{tt.wantMsg}, fields["price"])
				assert.Equal(t, 0, f.tx.Calls)
			})
		}
	})

	t.Run("largest stored price", func(t *testing.T) {
		f := newProductFixture()

		p, err := f.svc.Create(ctx, f.input("Laptop", "9999999999.99"))
		require.NoError(t, err)
		assert.True(t, domain.MaxPrice.Equal(p.Price))
	})

	t.Run("oversized image", func(t *testing.T) {
		f := newProductFixture()
		in := f.input("Laptop", "10")
		big := testImage(t, "big.jpg")
		big.Size = testMaxUpload + 1
		in.Images = []media.Upload{big}

		_, err := f.svc.Create(ctx, in)
		fields := requireValidation(t, err)
		assert.Equal(t, []string{"The images.0 field must not be greater than 5120 kilobytes."}, fields["images.0"])
	})

	t.Run("storage failure removes written objects", func(t *testing.T) {
		f := newProductFixture()
		f.storage.PutErr = errors.New("bucket unavailable")
		f.storage.FailAfter = 2
		in := f.input("Laptop", "10")
		in.Images = []media.Upload{testImage(t, "front.jpg")}

		_, err := f.svc.Create(ctx, in)
		var serviceErr *service.ServiceError
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "create_product", serviceErr.Operation)
		assert.Empty(t, f.storage.Keys())
	})

	t.Run("reference check failure", func(t *testing.T) {
		f := newProductFixture()
		f.catalog.Categories.ExistsFn = func(context.Context, int64) (bool, error) {
			return false, errors.New("timeout")
		}

		_, err := f.svc.Create(ctx, f.input("Laptop", "10"))
		var serviceErr *service.ServiceError
		assert.True(t, errors.As(err, &serviceErr))
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	for i := 1; i <= 12; i++ {
		in := f.input(fmt.Sprintf("Gadget %02d", i), "5")
		if i%4 == 0 {
			in.CategoryID = strPtr(fmt.Sprint(f.categories[1].ID))
			in.StatusID = strPtr(fmt.Sprint(f.statuses[1].ID))
		}
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
	}

	t.Run("pages newest first", func(t *testing.T) {
		first, err := f.svc.List(ctx, service.ProductQuery{Page: 1})
		require.NoError(t, err)
		require.Len(t, first.Items, 10)
		assert.Equal(t, "Gadget 12", first.Items[0].Name)
		assert.Equal(t, domain.PageMeta{CurrentPage: 1, LastPage: 2, PerPage: 10, Total: 12}, first.Meta)

		second, err := f.svc.List(ctx, service.ProductQuery{Page: 2})
		require.NoError(t, err)
		require.Len(t, second.Items, 2)
		assert.Equal(t, "Gadget 01", second.Items[1].Name)
	})

	tests := []struct {
		name      string
		query     service.ProductQuery
		wantTotal int64
	}{
		{"search by product name", service.ProductQuery{Search: strPtr("gadget 1")}, 3},
		{"search by category name", service.ProductQuery{Search: strPtr("BOOK")}, 3},
		{"search by status name", service.ProductQuery{Search: strPtr("sold")}, 3},
		{"blank search", service.ProductQuery{Search: strPtr("  ")}, 12},
		{"category filter", service.ProductQuery{CategoryID: strPtr(fmt.Sprint(f.categories[0].ID))}, 9},
		{"status filter", service.ProductQuery{StatusID: strPtr(fmt.Sprint(f.statuses[1].ID))}, 3},
		{"combined filters", service.ProductQuery{
			Search:     strPtr("gadget 0"),
			CategoryID: strPtr(fmt.Sprint(f.categories[1].ID)),
		}, 2},
		{"unknown category", service.ProductQuery{CategoryID: strPtr("999")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Meta.Total)
		})
	}

	t.Run("malformed filter", func(t *testing.T) {
		_, err := f.svc.List(ctx, service.ProductQuery{CategoryID: strPtr("abc")})
		fields := requireValidation(t, err)
		assert.Equal(t, []string{"The product category id field must be an integer."}, fields["product_category_id"])
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	_, err := f.svc.Get(ctx, 42)
	assert.ErrorIs(t, err, store.ErrProductNotFound)

	created, err := f.svc.Create(ctx, f.input("Laptop", "10"))
	require.NoError(t, err)

	// Deleting a referenced status leaves a null relation.
	require.NoError(t, f.catalog.Statuses.Delete(ctx, f.statuses[0].ID))
	p, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, p.Status)
	assert.Equal(t, f.statuses[0].ID, p.StatusID)
	assert.NotNil(t, p.Category)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		f := newProductFixture()
		created, err := f.svc.Create(ctx, f.input("Laptop", "10"))
		require.NoError(t, err)

		p, err := f.svc.Update(ctx, created.ID, service.ProductInput{Price: strPtr("12.50")})
		require.NoError(t, err)
		assert.Equal(t, "Laptop", p.Name)
		assert.True(t, decimal.RequireFromString("12.5").Equal(p.Price))
		assert.Equal(t, "Electronics", p.Category.Name)
	})

	t.Run("changes references", func(t *testing.T) {
		f := newProductFixture()
		created, err := f.svc.Create(ctx, f.input("Laptop", "10"))
		require.NoError(t, err)

		p, err := f.svc.Update(ctx, created.ID, service.ProductInput{
			CategoryID: strPtr(fmt.Sprint(f.categories[1].ID)),
		})
		require.NoError(t, err)
		assert.Equal(t, "Books", p.Category.Name)
	})

	t.Run("new images replace old ones", func(t *testing.T) {
		f := newProductFixture()
		in := f.input("Laptop", "10")
		in.Images = []media.Upload{testImage(t, "old.jpg")}
		created, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
		oldKeys := created.Media[0].Keys()

		p, err := f.svc.Update(ctx, created.ID, service.ProductInput{
			Images: []media.Upload{testImage(t, "new-1.jpg"), testImage(t, "new-2.jpg")},
		})
		require.NoError(t, err)
		require.Len(t, p.Media, 2)
		assert.Equal(t, "new-1.jpg", p.Media[0].FileName)
		assert.Equal(t, 2, f.catalog.Media.Len())
		assert.Len(t, f.storage.Keys(), 6)
		for _, key := range oldKeys {
			_, ok := f.storage.Get(key)
			assert.False(t, ok, key)
		}
	})

	t.Run("without images keeps existing ones", func(t *testing.T) {
		f := newProductFixture()
		in := f.input("Laptop", "10")
		in.Images = []media.Upload{testImage(t, "keep.jpg")}
		created, err := f.svc.Create(ctx, in)
		require.NoError(t, err)

		p, err := f.svc.Update(ctx, created.ID, service.ProductInput{Name: strPtr("Notebook")})
		require.NoError(t, err)
		assert.Equal(t, "Notebook", p.Name)
		require.Len(t, p.Media, 1)
		assert.Equal(t, "keep.jpg", p.Media[0].FileName)
	})

	t.Run("present fields are validated", func(t *testing.T) {
		f := newProductFixture()
		created, err := f.svc.Create(ctx, f.input("Laptop", "10"))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, created.ID, service.ProductInput{
			Name:     strPtr(""),
			Price:    strPtr("ten"),
			StatusID: strPtr("999"),
		})
		fields := requireValidation(t, err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "price")
		assert.Equal(t, []string{"The selected product status id is invalid."}, fields["product_status_id"])
		assert.NotContains(t, fields, "product_category_id")
	})

	t.Run("price outside the stored range", func(t *testing.T) {
		f := newProductFixture()
		created, err := f.svc.Create(ctx, f.input("Laptop", "10"))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, created.ID, service.ProductInput{Price: strPtr("1e15")})
		fields := requireValidation(t, err)
		assert.Equal(t, []string{"The price field must be between -9999999999.99 and 9999999999.99."}, fields["price"])

		_, err = f.svc.Update(ctx, created.ID, service.ProductInput{Price: strPtr("1.239")})
		fields = requireValidation(t, err)
		assert.Equal(t, []string{"The price field must not have more than 2 decimal places."}, fields["price"])

		got, err := f.svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("10").Equal(got.Price))
	})

	t.Run("missing product", func(t *testing.T) {
		f := newProductFixture()
		_, err := f.svc.Update(ctx, 999, service.ProductInput{Name: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrProductNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	in := f.input("Laptop", "10")
	in.Images = []media.Upload{testImage(t, "a.jpg")}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, f.storage.Keys())

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.Empty(t, f.storage.Keys())
	assert.Equal(t, 0, f.catalog.Media.Len())

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), store.ErrProductNotFound)

	t.Run("store failure keeps objects", func(t *testing.T) {
		created, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
		f.catalog.Products.DeleteFn = func(context.Context, int64) error { return errors.New("locked") }
		defer func() { f.catalog.Products.DeleteFn = nil }()

		err = f.svc.Delete(ctx, created.ID)
		var serviceErr *service.ServiceError
		require.True(t, errors.As(err, &serviceErr))
		assert.Len(t, f.storage.Keys(), 3)
	})
}
