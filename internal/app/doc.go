// Package app wires the cleaning service into an HTTP server and manages
// its lifecycle.
//
// # Initialization Flow
//
//	1. Resolve and create the output and log directories
//	2. Initialize OpenTelemetry tracing and metrics
//	3. Create the cleaning and health services
//	4. Build the chi router and its middleware chain
//	5. Create the HTTP server
//
// # Middleware Order
//
//	RequestID → RealIP → OTel → error recovery and access log →
//	security headers → rate limit → body limit → handler
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Errors are returned
// to the caller; the package never calls os.Exit.
package app
