package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/service"
)

// DashboardHandler serves the catalog summary.
type DashboardHandler struct {
	dashboard service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Show handles GET /get-dashboard.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Summary(r.Context())
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Error("failed to build dashboard",
			slog.String("error", redact.Error(err)))
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, DashboardErrorResponse{
			Success: false,
			Message: "Failed to fetch dashboard data",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DashboardResponse{
		Success:            true,
		TotalProducts:      d.TotalProducts,
		StatusCounts:       d.StatusCounts,
		TotalCategories:    d.TotalCategories,
		ProductsByCategory: d.ProductsByCategory,
	})
}
