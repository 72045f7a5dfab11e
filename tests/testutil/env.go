// Package testutil holds fixtures and session helpers shared by the HTTP tests.
package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV=test, so suites that
// load configuration from the environment never run against a real database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test (current: %q)", env)
	}
}

// MustSetTestEnvironment sets GO_ENV=test for suites that load configuration.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	RequireTestEnvironment(t)
}
