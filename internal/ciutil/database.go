package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Connection settings of the postgres service container used in CI.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
	StandardCIPort     = "5432"
	StandardCIDatabase = "catalog_test"
	StandardCIOptions  = "sslmode=disable"
)

// GetTestDatabaseURL returns CATALOG_TEST_DB_URL, falling back to
// DATABASE_URL, or "" when neither is set. On CI the URL is rewritten to the
// standard service-container credentials.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks([]string{EnvCatalogTestDBURL, EnvDatabaseURL}, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := standardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to standardize database URL",
				"error", err,
				"original_url", MaskSensitiveValue(dbURL))
		}
		return dbURL
	}
	if standardized != dbURL && logger != nil {
		logger.Info("Standardized database URL for CI environment",
			"original", MaskSensitiveValue(dbURL),
			"standardized", MaskSensitiveValue(standardized))
	}
	return standardized
}

// standardizeDatabaseURL replaces the credentials of a postgres URL and fills
// in the port, database and options when they are missing.
func standardizeDatabaseURL(dbURL string) (string, error) {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return dbURL, nil
	}

	out := *parsed
	out.User = url.UserPassword(StandardCIUser, StandardCIPassword)

	host := parsed.Hostname()
	if parsed.Port() == "" && (host == "" || host == "localhost" || host == "127.0.0.1") {
		if host == "" {
			host = "localhost"
		}
		out.Host = host + ":" + StandardCIPort
	}
	if strings.TrimPrefix(parsed.Path, "/") == "" {
		out.Path = "/" + StandardCIDatabase
	}
	if parsed.RawQuery == "" {
		out.RawQuery = StandardCIOptions
	}
	return out.String(), nil
}
