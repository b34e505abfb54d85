package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/catalog-api/internal/api"
	apiMiddleware "github.com/phrazzld/catalog-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	responder := api.NewErrorResponder(app.config.Server.ExposeErrors)
	authHandler := api.NewAuthHandler(app.authService, responder)
	productHandler := api.NewProductHandler(app.productService, responder, app.config.Media.MaxUploadBytes)
	categoryHandler := api.NewLookupHandler(app.categoryService, responder)
	statusHandler := api.NewLookupHandler(app.statusService, responder)
	dashboardHandler := api.NewDashboardHandler(app.dashboard)

	authMW := apiMiddleware.NewAuthMiddleware(app.authService)
	admin := chi.Chain(authMW.Authenticate, authMW.RequireAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMW.Authenticate).Post("/logout", authHandler.Logout)
		r.With(authMW.Authenticate).Get("/me", authHandler.Me)

		r.Get("/get-products", productHandler.List)
		r.Get("/get-product/{id}", productHandler.Get)
		r.With(admin...).Post("/store-product", productHandler.Create)
		r.With(admin...).Post("/update-product/{id}", productHandler.Update)
		r.With(admin...).Delete("/delete-product/{id}", productHandler.Delete)

		r.Get("/get-categories", categoryHandler.List)
		r.With(admin...).Get("/get-category/{id}", categoryHandler.Get)
		r.With(admin...).Post("/store-category", categoryHandler.Create)
		r.With(admin...).Put("/update-category/{id}", categoryHandler.Update)
		r.With(admin...).Delete("/delete-category/{id}", categoryHandler.Delete)

		r.Get("/get-statuses", statusHandler.List)
		r.With(admin...).Get("/get-status/{id}", statusHandler.Get)
		r.With(admin...).Post("/store-status", statusHandler.Create)
		r.With(admin...).Put("/update-status/{id}", statusHandler.Update)
		r.With(admin...).Delete("/delete-status/{id}", statusHandler.Delete)

		r.Get("/get-dashboard", dashboardHandler.Show)
	})

	if app.localStorage != nil {
		r.Handle(storagePrefix+"/*", http.StripPrefix(storagePrefix, app.localStorage.Handler()))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
