// Package service contains the use cases of the catalog API: authentication,
// category and status management, products with their images, and the
// dashboard summary.
//
// Services validate raw input with the validation package, coordinate the
// store interfaces inside transactions and return sentinel or wrapped errors
// that the API layer maps to HTTP status codes. They never depend on a
// concrete storage implementation.
package service
