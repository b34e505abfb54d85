// Package api contains the HTTP handlers of the catalog API: registration and
// login, products with their images, categories, statuses and the dashboard.
// Handlers read request fields, call the services and map their errors to
// status codes and response bodies.
package api
