package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
)

// DashboardService computes catalog-wide counts.
type DashboardService interface {
	// Summary is computed from the store on every call.
	Summary(ctx context.Context) (*domain.Dashboard, error)
}

type dashboardServiceImpl struct {
	products   store.ProductStore
	categories store.LookupStore
	logger     *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(products store.ProductStore, categories store.LookupStore, logger *slog.Logger) DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardServiceImpl{
		products:   products,
		categories: categories,
		logger:     logger.With(slog.String("component", "dashboard_service")),
	}
}

func (s *dashboardServiceImpl) Summary(ctx context.Context) (*domain.Dashboard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	fail := func(step string, err error) (*domain.Dashboard, error) {
		log.Error("failed to compute dashboard", slog.String("step", step), slog.String("error", redact.Error(err)))
		return nil, NewServiceError("dashboard", "failed to "+step, err)
	}

	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return fail("count products", err)
	}
	statusCounts, err := s.products.CountByStatus(ctx)
	if err != nil {
		return fail("count products by status", err)
	}
	totalCategories, err := s.categories.Count(ctx)
	if err != nil {
		return fail("count categories", err)
	}
	byCategory, err := s.categories.ProductCounts(ctx)
	if err != nil {
		return fail("count products by category", err)
	}

	if statusCounts == nil {
		statusCounts = map[string]int64{}
	}
	if byCategory == nil {
		byCategory = []domain.CategoryCount{}
	}
	return &domain.Dashboard{
		TotalProducts:      totalProducts,
		StatusCounts:       statusCounts,
		TotalCategories:    totalCategories,
		ProductsByCategory: byCategory,
	}, nil
}
