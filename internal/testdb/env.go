package testdb

import "os"

// IsIntegrationTestEnvironment returns true if any of the database URL
// environment variables are set, indicating that PostgreSQL integration
// tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns the PostgreSQL URL for tests.
// It checks DATABASE_URL and VISION_TEST_DB_URL in that order,
// returning the first non-empty value.
func GetTestDatabaseURL() string {
	for _, name := range []string{"DATABASE_URL", "VISION_TEST_DB_URL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
