package api_test

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/catalog-api/internal/api"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/media"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 5 * 1024 * 1024

type catalogFixture struct {
	catalog    *mocks.Catalog
	storage    *mocks.MemoryStorage
	router     http.Handler
	categories []*domain.Lookup
	statuses   []*domain.Lookup
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	log, _ := logger.NewTestLogger()
	f := &catalogFixture{catalog: mocks.NewCatalog(), storage: mocks.NewMemoryStorage()}
	f.categories = f.catalog.Categories.Seed("Electronics", "Books")
	f.statuses = f.catalog.Statuses.Seed("Available", "Sold out")

	library := media.NewLibrary(f.storage, nil, testMaxUpload, log)
	products := service.NewProductService(&mocks.MockTransactor{}, f.catalog.Products,
		f.catalog.Categories, f.catalog.Statuses, f.catalog.Media, library, log)
	responder := api.NewErrorResponder(false)

	ph := api.NewProductHandler(products, responder, testMaxUpload)
	ch := api.NewLookupHandler(service.NewLookupService(f.catalog.Categories, log), responder)
	dh := api.NewDashboardHandler(service.NewDashboardService(f.catalog.Products, f.catalog.Categories, log))

	r := chi.NewRouter()
	r.Get("/get-products", ph.List)
	r.Get("/get-product/{id}", ph.Get)
	r.Post("/store-product", ph.Create)
	r.Post("/update-product/{id}", ph.Update)
	r.Delete("/delete-product/{id}", ph.Delete)
	r.Get("/get-categories", ch.List)
	r.Get("/get-category/{id}", ch.Get)
	r.Post("/store-category", ch.Create)
	r.Put("/update-category/{id}", ch.Update)
	r.Delete("/delete-category/{id}", ch.Delete)
	r.Get("/get-dashboard", dh.Show)
	f.router = r
	return f
}

func (f *catalogFixture) do(t *testing.T, r *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w, decodeBody(t, w)
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// multipartRequest builds a form with the given fields and one JPEG per file
// name under "images[]".
func multipartRequest(t *testing.T, target string, fields map[string]string, files ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range files {
		part, err := mw.CreateFormFile("images[]", name)
		require.NoError(t, err)
		require.NoError(t, imaging.Encode(part, imaging.New(64, 48, color.NRGBA{R: 200, A: 255}), imaging.JPEG))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func (f *catalogFixture) productFields(name, price string) map[string]string {
	return map[string]string{
		"name":                name,
		"price":               price,
		"product_category_id": fmt.Sprint(f.categories[0].ID),
		"product_status_id":   fmt.Sprint(f.statuses[0].ID),
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("multipart with images", func(t *testing.T) {
		f := newCatalogFixture(t)

		w, body := f.do(t, multipartRequest(t, "/store-product", f.productFields("Laptop", "999.99"), "front.jpg"))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Laptop", body["name"])
		assert.Equal(t, "999.99", body["price"])
		assert.Equal(t, "Electronics", body["category"].(map[string]any)["name"])
		assert.Equal(t, "Available", body["status"].(map[string]any)["name"])
		require.Len(t, body["media"], 1)
		require.Len(t, body["image_urls"], 1)
		assert.NotEmpty(t, f.storage.Keys())
	})

	t.Run("JSON without images", func(t *testing.T) {
		f := newCatalogFixture(t)
		payload := fmt.Sprintf(`{"name":"Novel","price":12.5,"product_category_id":%d,"product_status_id":%d}`,
			f.categories[1].ID, f.statuses[0].ID)

		w, body := f.do(t, jsonRequest(http.MethodPost, "/store-product", payload))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Books", body["category"].(map[string]any)["name"])
		assert.Equal(t, []any{}, body["media"])
		assert.Equal(t, []any{}, body["image_urls"])
	})

	t.Run("validation failure", func(t *testing.T) {
		f := newCatalogFixture(t)

		w, body := f.do(t, jsonRequest(http.MethodPost, "/store-product",
			`{"name":"","price":"abc","product_category_id":999}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := body["errors"].(map[string]any)
		for _, field := range []string{"name", "price", "product_category_id", "product_status_id"} {
			assert.Contains(t, errs, field)
		}
		assert.Empty(t, f.storage.Keys())
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newCatalogFixture(t)

		w, body := f.do(t, jsonRequest(http.MethodPost, "/store-product", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", body["message"])
	})
}

func TestProductHandler_ListAndGet(t *testing.T) {
	f := newCatalogFixture(t)
	for i := 1; i <= 12; i++ {
		w, _ := f.do(t, multipartRequest(t, "/store-product", f.productFields(fmt.Sprintf("Item %02d", i), "10")))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/get-products?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["current_page"])
	assert.Equal(t, float64(2), meta["last_page"])
	assert.Equal(t, float64(12), meta["total"])
	assert.Len(t, body["data"], 2)

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/get-products?search=Item+07", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	id := data[0].(map[string]any)["id"]

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/get-product/%v", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item 07", body["name"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/get-products?product_status_id=abc", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["errors"], "product_status_id")

	for _, target := range []string{"/get-product/999", "/get-product/abc"} {
		w, body = f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "Product not found", body["message"])
	}
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	w, created := f.do(t, multipartRequest(t, "/store-product", f.productFields("Laptop", "999.99"), "old.jpg"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id"]
	oldKeys := f.storage.Keys()

	w, body := f.do(t, multipartRequest(t, fmt.Sprintf("/update-product/%v", id),
		map[string]string{"price": "899.00"}, "new.jpg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Laptop", body["name"])
	assert.Equal(t, "899", body["price"])
	items := body["media"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "new.jpg", items[0].(map[string]any)["file_name"])
	for _, key := range oldKeys {
		_, ok := f.storage.Get(key)
		assert.False(t, ok, "old object %s should be removed", key)
	}

	w, _ = f.do(t, jsonRequest(http.MethodPost, "/update-product/999", `{"name":"Ghost"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/delete-product/%v", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted", body["message"])
	assert.Empty(t, f.storage.Keys())

	w, body = f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/delete-product/%v", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", body["message"])
}

func TestLookupHandler(t *testing.T) {
	f := newCatalogFixture(t)

	w, body := f.do(t, jsonRequest(http.MethodPost, "/store-category", `{"name":"Garden"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Garden", body["name"])
	id := body["id"]

	w, body = f.do(t, jsonRequest(http.MethodPost, "/store-category", `{"name":"Garden"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []any{"The name has already been taken."}, body["errors"].(map[string]any)["name"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/get-categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]any)
	require.Len(t, data, 3)
	assert.Equal(t, "Garden", data[0].(map[string]any)["name"], "newest first")
	assert.Equal(t, float64(5), body["meta"].(map[string]any)["per_page"])

	w, body = f.do(t, jsonRequest(http.MethodPut, fmt.Sprintf("/update-category/%v", id), `{"name":"Outdoor"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Outdoor", body["name"])

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/get-category/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", body["message"])

	w, body = f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/delete-category/%v", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deleted successfully", body["message"])

	w, body = f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/delete-category/%v", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", body["message"])
}

func TestDashboardHandler(t *testing.T) {
	f := newCatalogFixture(t)
	for _, name := range []string{"A", "B"} {
		w, _ := f.do(t, multipartRequest(t, "/store-product", f.productFields(name, "1")))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/get-dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["totalProducts"])
	assert.Equal(t, float64(2), body["totalCategories"])
	assert.Equal(t, map[string]any{"Available": float64(2)}, body["statusCounts"])
	assert.Len(t, body["productsByCategory"], 2)

	t.Run("store failure", func(t *testing.T) {
		f := newCatalogFixture(t)
		f.catalog.Products.CountFn = func(context.Context) (int64, error) { return 0, assert.AnError }

		w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/get-dashboard", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Failed to fetch dashboard data", body["message"])
	})
}
