// Package shared holds helpers used across the cleaner's packages.
//
// The testutil subpackage captures slog output so tests can assert on
// structured log records:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc := services.NewHealthService("test", logger)
//	...
//	testutil.AssertNoErrors(t, handler)
package shared
