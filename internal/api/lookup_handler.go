package api

import (
	"net/http"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/store"
)

// LookupHandler serves the category and status endpoints. One handler is
// created per kind.
type LookupHandler struct {
	lookups service.LookupService
	errors  *ErrorResponder

	notFound     string
	deleted      string
	fetchFailed  string
	createFailed string
	updateFailed string
	deleteFailed string
}

// NewLookupHandler creates a LookupHandler for the kind managed by lookups.
func NewLookupHandler(lookups service.LookupService, responder *ErrorResponder) *LookupHandler {
	label := lookups.Kind().Label
	plural := "categories"
	if lookups.Kind() == domain.StatusKind {
		plural = "statuses"
	}
	return &LookupHandler{
		lookups:      lookups,
		errors:       responder,
		notFound:     label + " not found",
		deleted:      label + " deleted successfully",
		fetchFailed:  "Failed to fetch " + plural,
		createFailed: "Failed to create " + lookups.Kind().Name,
		updateFailed: "Failed to update " + lookups.Kind().Name,
		deleteFailed: "Failed to delete " + lookups.Kind().Name,
	}
}

// List handles GET /get-categories and /get-statuses.
func (h *LookupHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.lookups.List(r.Context(), shared.PageParam(r))
	if err != nil {
		h.errors.HandleAPIError(w, r, err, h.fetchFailed)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse[*domain.Lookup]{Data: page.Items, Meta: page.Meta})
}

// Get handles GET /get-category/{id} and /get-status/{id}.
func (h *LookupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, h.notFound)
		return
	}

	l, err := h.lookups.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, h.fetchFailed)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, l)
}

// Create handles POST /store-category and /store-status.
func (h *LookupHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := shared.ReadFields(r, maxFormMemory)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	l, err := h.lookups.Create(r.Context(), service.LookupInput{Name: fields.Get("name")})
	if err != nil {
		h.errors.HandleAPIError(w, r, err, h.createFailed)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, l)
}

// Update handles PUT /update-category/{id} and /update-status/{id}.
func (h *LookupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, h.notFound)
		return
	}
	fields, err := shared.ReadFields(r, maxFormMemory)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	l, err := h.lookups.Update(r.Context(), id, service.LookupInput{Name: fields.Get("name")})
	if err != nil {
		h.respondError(w, r, err, h.updateFailed)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, l)
}

// Delete handles DELETE /delete-category/{id} and /delete-status/{id}.
func (h *LookupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := shared.IDParam(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, h.notFound)
		return
	}

	if err := h.lookups.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err, h.deleteFailed)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, h.deleted)
}

func (h *LookupHandler) respondError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	if store.IsNotFoundError(err) {
		shared.RespondWithError(w, r, http.StatusNotFound, h.notFound)
		return
	}
	h.errors.HandleAPIError(w, r, err, failure)
}
