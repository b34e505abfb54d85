package api

import (
	"github.com/phrazzld/catalog-api/internal/domain"
)

// ListResponse is a page of records with pagination metadata.
type ListResponse[T any] struct {
	Data []T             `json:"data"`
	Meta domain.PageMeta `json:"meta"`
}

// ProductResponse is a product with its category, status, media and the
// URLs of its original images.
type ProductResponse struct {
	*domain.Product
	ImageURLs []string `json:"image_urls"`
}

func productToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{Product: p, ImageURLs: p.ImageURLs()}
}

func productsToResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = productToResponse(p)
	}
	return out
}

// RegisterResponse is returned by the registration endpoint.
type RegisterResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Status    string       `json:"status"`
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// DashboardResponse carries the catalog-wide counts.
type DashboardResponse struct {
	Success            bool                   `json:"success"`
	TotalProducts      int64                  `json:"totalProducts"`
	StatusCounts       map[string]int64       `json:"statusCounts"`
	TotalCategories    int64                  `json:"totalCategories"`
	ProductsByCategory []domain.CategoryCount `json:"productsByCategory"`
}

// DashboardErrorResponse is the dashboard's failure body.
type DashboardErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
