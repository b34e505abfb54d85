// Package ciutil detects CI environments and resolves the test database URL
// from the environment, normalizing credentials on CI runners.
package ciutil
