package api

import (
	"net/http"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/store"
)

const (
	msgProductNotFound = "Product not found"
	// maxMultipartMemory bounds the part of a multipart body kept in memory;
	// larger files spill to temporary files.
	maxMultipartMemory = 32 << 20
)

// ProductHandler serves the product endpoints.
type ProductHandler struct {
	products       service.ProductService
	errors         *ErrorResponder
	maxUploadBytes int64
}

// NewProductHandler creates a ProductHandler. maxUploadBytes is the
// per-image limit; it bounds how much of each uploaded file is read.
func NewProductHandler(products service.ProductService, responder *ErrorResponder, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{products: products, errors: responder, maxUploadBytes: maxUploadBytes}
}

// List handles GET /get-products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.List(r.Context(), service.ProductQuery{
		Page:       shared.PageParam(r),
		Search:     shared.QueryParam(r, service.FieldSearch),
		CategoryID: shared.QueryParam(r, service.FieldCategoryID),
		StatusID:   shared.QueryParam(r, service.FieldStatusID),
	})
	if err != nil {
		h.errors.HandleAPIError(w, r, err, "Failed to fetch products")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse[ProductResponse]{
		Data: productsToResponse(page.Items),
		Meta: page.Meta,
	})
}

// Get handles GET /get-product/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}

	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, "Failed to fetch product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(p))
}

// Create handles POST /store-product. It accepts multipart/form-data with
// image files or a JSON body without images.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		h.errors.HandleAPIError(w, r, err, "Failed to create product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, productToResponse(p))
}

// Update handles POST /update-product/{id}. Only the fields sent are changed;
// uploaded images replace the existing ones.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	p, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err, "Failed to update product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(p))
}

// Delete handles DELETE /delete-product/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err, "Failed to delete product")
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, "Product deleted")
}

func (h *ProductHandler) readInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, bool) {
	fields, err := shared.ReadFields(r, maxMultipartMemory)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.ProductInput{}, false
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	uploads, err := shared.ReadUploads(r, h.maxUploadBytes)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return service.ProductInput{}, false
	}

	return service.ProductInput{
		Name:       fields.Get(service.FieldName),
		Price:      fields.Get(service.FieldPrice),
		CategoryID: fields.Get(service.FieldCategoryID),
		StatusID:   fields.Get(service.FieldStatusID),
		Images:     uploads,
	}, true
}

func (h *ProductHandler) respondError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	if store.IsNotFoundError(err) {
		shared.RespondWithError(w, r, http.StatusNotFound, msgProductNotFound)
		return
	}
	h.errors.HandleAPIError(w, r, err, failure)
}
