package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/phrazzld/catalog-api/internal/config"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/shopspring/decimal"
)

// Default seed data.
var (
	SeedCategories = []string{"Clothes", "Electronics", "Shoes", "Books", "Accessories"}
	SeedStatuses   = []string{"Available", "Out of Stock", "Coming Soon"}
)

var seedWords = []string{
	"aurora", "breeze", "canyon", "delta", "ember", "fjord", "glacier", "harbor",
	"island", "jungle", "kestrel", "lagoon", "meadow", "nebula", "orchid", "prairie",
	"quartz", "river", "summit", "tundra", "umbra", "valley", "willow", "zephyr",
}

// HashFunc turns a plaintext password into a stored hash.
type HashFunc func(password string) (string, error)

// Seed inserts the demo categories, statuses and admin user, plus
// cfg.Products random products when the products table is empty. Running it
// again does not duplicate anything.
func Seed(ctx context.Context, db *sql.DB, cfg config.SeedConfig, hash HashFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "seeder"))

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		categoryIDs, err := seedLookups(ctx, tx, domain.CategoryKind, SeedCategories)
		if err != nil {
			return err
		}
		statusIDs, err := seedLookups(ctx, tx, domain.StatusKind, SeedStatuses)
		if err != nil {
			return err
		}

		if err := seedAdmin(ctx, tx, cfg, hash); err != nil {
			return err
		}

		created, err := seedProducts(ctx, tx, cfg.Products, categoryIDs, statusIDs)
		if err != nil {
			return err
		}

		log.Info("database seeded",
			slog.Int("categories", len(categoryIDs)),
			slog.Int("statuses", len(statusIDs)),
			slog.Int("products_created", created))
		return nil
	})
}

func seedLookups(ctx context.Context, tx *sql.Tx, kind domain.LookupKind, names []string) ([]int64, error) {
	insert := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, kind.Table)
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, insert, name); err != nil {
			return nil, fmt.Errorf("failed to seed %s %q: %w", kind.Name, name, MapError(err))
		}
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, kind.Table))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func seedAdmin(ctx context.Context, tx *sql.Tx, cfg config.SeedConfig, hash HashFunc) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := NewPostgresUserStore(tx, nil)
	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !store.IsNotFoundError(err) {
		return err
	}

	hashed, err := hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.AdminName
	if strings.TrimSpace(name) == "" {
		name = "Admin User"
	}
	admin, err := domain.NewUser(name, cfg.AdminEmail, hashed, true)
	if err != nil {
		return err
	}
	return users.Create(ctx, admin)
}

func seedProducts(ctx context.Context, tx *sql.Tx, n int, categoryIDs, statusIDs []int64) (int, error) {
	if n <= 0 || len(categoryIDs) == 0 || len(statusIDs) == 0 {
		return 0, nil
	}

	products := NewPostgresProductStore(tx, nil)
	existing, err := products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		word := seedWords[rand.Intn(len(seedWords))]
		p, err := domain.NewProduct(
			strings.ToUpper(word[:1])+word[1:],
			decimal.NewFromInt(int64(10+rand.Intn(491))),
			categoryIDs[rand.Intn(len(categoryIDs))],
			statusIDs[rand.Intn(len(statusIDs))],
		)
		if err != nil {
			return i, err
		}
		// Spread creation times so newest-first ordering is deterministic.
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		if err := products.Create(ctx, p); err != nil {
			return i, err
		}
	}
	return n, nil
}
