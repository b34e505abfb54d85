package domain

// UnknownStatus is the bucket used for products whose status cannot be resolved.
const UnknownStatus = "Unknown"

// Dashboard aggregates catalog-wide counts. It is computed on every request.
type Dashboard struct {
	TotalProducts      int64
	StatusCounts       map[string]int64
	TotalCategories    int64
	ProductsByCategory []CategoryCount
}
