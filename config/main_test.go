package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test so a
// developer's DATABASE_URL is never dialed by accident.
func TestMain(m *testing.M) {
	env := os.Getenv("GO_ENV")
	if env != "test" {
		fmt.Fprintf(os.Stderr, "\nSAFETY CHECK FAILED: config tests must run with GO_ENV=test (current: %q)\n"+
			"Run: GO_ENV=test go test ./...\n\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
