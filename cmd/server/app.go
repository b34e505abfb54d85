package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/catalog-api/internal/config"
	"github.com/phrazzld/catalog-api/internal/media"
	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/phrazzld/catalog-api/internal/platform/redisstore"
	"github.com/phrazzld/catalog-api/internal/service"
	"github.com/phrazzld/catalog-api/internal/service/auth"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// storagePrefix is where the local media driver serves files.
const storagePrefix = "/storage"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	authService     service.AuthService
	productService  service.ProductService
	categoryService service.LookupService
	statusService   service.LookupService
	dashboard       service.DashboardService

	// localStorage is set only for the local media driver; its files are
	// served under storagePrefix.
	localStorage *media.LocalStorage
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be open and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	revoked, err := app.setupRevocationStore(ctx)
	if err != nil {
		return nil, err
	}

	storage, err := app.setupStorage(ctx)
	if err != nil {
		return nil, err
	}
	library := media.NewLibrary(storage, media.NewProcessor(), cfg.Media.MaxUploadBytes, logger)

	users := postgres.NewPostgresUserStore(db, logger)
	categories := postgres.NewPostgresCategoryStore(db, logger)
	statuses := postgres.NewPostgresStatusStore(db, logger)
	products := postgres.NewPostgresProductStore(db, logger)
	mediaStore := postgres.NewPostgresMediaStore(db, logger)

	app.authService = service.NewAuthService(
		users,
		revoked,
		jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		logger,
	)
	app.categoryService = service.NewLookupService(categories, logger)
	app.statusService = service.NewLookupService(statuses, logger)
	app.productService = service.NewProductService(
		store.NewDBTransactor(db),
		products,
		categories,
		statuses,
		mediaStore,
		library,
		logger,
	)
	app.dashboard = service.NewDashboardService(products, categories, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRevocationStore returns the store for logged-out token ids.
func (app *application) setupRevocationStore(ctx context.Context) (store.RevokedTokenStore, error) {
	if app.config.Auth.RevocationBackend != "redis" {
		return postgres.NewPostgresRevokedTokenStore(app.db, app.logger), nil
	}

	client, err := redisstore.NewClient(ctx, app.config.Redis.URL)
	if err != nil {
		return nil, err
	}
	app.redis = client
	app.logger.Info("Token revocation backed by redis")
	return redisstore.NewRevokedTokenStore(client, app.logger), nil
}

// setupStorage creates the configured media backend.
func (app *application) setupStorage(ctx context.Context) (media.Storage, error) {
	cfg := app.config.Media
	if cfg.Driver == "s3" {
		client, err := media.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		app.logger.Info("Media stored in S3", "bucket", cfg.S3.Bucket)
		return media.NewS3Storage(client, cfg.S3.Bucket, media.S3PublicURL(cfg.S3)), nil
	}

	baseURL := strings.TrimRight(app.config.Server.PublicURL, "/") + storagePrefix
	local, err := media.NewLocalStorage(cfg.LocalDir, baseURL)
	if err != nil {
		return nil, err
	}
	app.localStorage = local
	app.logger.Info("Media stored on local disk", "dir", cfg.LocalDir)
	return local, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}
	closeDB(app.db, app.logger)

	app.logger.Info("Application shutdown completed")
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}
