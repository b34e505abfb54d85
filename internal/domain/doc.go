// Package domain contains the core business entities of the product catalog:
// users, lookup records (categories and statuses), products and their media,
// pagination envelopes and the dashboard aggregate. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
