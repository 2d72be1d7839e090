//go:build integration

package testdb

import "os"

// URLEnvVars lists the environment variables consulted for the test
// database, in order of precedence.
var URLEnvVars = []string{"DATABASE_URL", "TASKS_TEST_DATABASE_URL", "TASKS_DATABASE_URL"}

// DatabaseURL returns the first non-empty URLEnvVars value.
func DatabaseURL() string {
	for _, name := range URLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}

// isCIEnvironment reports whether the process runs under a CI system, where
// a missing database is an error rather than a reason to skip.
func isCIEnvironment() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
