// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, the embedded goose migrations that
// create the catalog schema, and the demo data seeder.
package postgres
