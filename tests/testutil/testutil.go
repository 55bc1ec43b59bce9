package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test immediately unless GO_ENV is set to
// "test". The suites here wipe and reseed whatever database they are pointed
// at, so they must never run against a development or production Shamsy
// instance.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("refusing to run: GO_ENV=%q, must be \"test\" (these suites reset the database)", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing. Use for optional
// tests that only make sense against the test environment.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("skipping: GO_ENV=%q, must be \"test\"", env)
	}
}
