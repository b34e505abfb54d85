package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		f := newProductFixture()
		svc := service.NewDashboardService(f.catalog.Products, f.catalog.Categories, testLogger)

		d, err := svc.Summary(ctx)
		require.NoError(t, err)
		assert.Zero(t, d.TotalProducts)
		assert.Empty(t, d.StatusCounts)
		assert.NotNil(t, d.StatusCounts)
		assert.Equal(t, int64(2), d.TotalCategories)
		assert.Equal(t, []domain.CategoryCount{{Name: "Electronics"}, {Name: "Books"}}, d.ProductsByCategory)
	})

	t.Run("counts products", func(t *testing.T) {
		f := newProductFixture()
		f.catalog.Categories.Seed("Toys")
		svc := service.NewDashboardService(f.catalog.Products, f.catalog.Categories, testLogger)

		for i := 0; i < 3; i++ {
			_, err := f.svc.Create(ctx, f.input(fmt.Sprintf("Phone %d", i), "100"))
			require.NoError(t, err)
		}
		in := f.input("Atlas", "30")
		in.CategoryID = strPtr(fmt.Sprint(f.categories[1].ID))
		in.StatusID = strPtr(fmt.Sprint(f.statuses[1].ID))
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)

		d, err := svc.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), d.TotalProducts)
		assert.Equal(t, map[string]int64{"Available": 3, "Sold out": 1}, d.StatusCounts)
		assert.Equal(t, int64(3), d.TotalCategories)
		assert.Equal(t, []domain.CategoryCount{
			{Name: "Electronics", Count: 3},
			{Name: "Books", Count: 1},
			{Name: "Toys", Count: 0},
		}, d.ProductsByCategory)

		// Products whose status was deleted land in the unknown bucket.
		require.NoError(t, f.catalog.Statuses.Delete(ctx, f.statuses[1].ID))
		d, err = svc.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"Available": 3, domain.UnknownStatus: 1}, d.StatusCounts)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newProductFixture()
		f.catalog.Products.CountFn = func(context.Context) (int64, error) { return 0, errors.New("down") }
		svc := service.NewDashboardService(f.catalog.Products, f.catalog.Categories, testLogger)

		_, err := svc.Summary(ctx)
		var serviceErr *service.ServiceError
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, "dashboard", serviceErr.Operation)
	})
}
