// Package store defines the persistence interfaces of the catalog (users,
// categories, statuses, products, media and revoked tokens), the sentinel
// errors they return, and the transaction helpers services use to group
// several store calls into one unit of work. Implementations live in
// internal/platform.
package store
