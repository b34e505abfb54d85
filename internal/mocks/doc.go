// Package mocks provides centralized mock implementations for testing.
//
// Store mocks keep their records in memory so services and handlers can be
// exercised end to end without a database. Each mock also exposes function
// fields that override the default behavior for a single method, which is how
// tests inject failures:
//
//	catalog := mocks.NewCatalog()
//	catalog.Products.CountFn = func(ctx context.Context) (int64, error) {
//	    return 0, errors.New("connection refused")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each method that
//     tests need to override
//  3. Assert the interface with a var _ declaration
package mocks
