// Package http implements the HTTP handlers of the cleaning service.
// Handlers stay thin: they decode and validate requests, call the services
// package and render the result. Failures are rendered as RFC 7807 problem
// details through the errors package.
//
// # Routes
//
//	POST /api/v1/clean       clean one JSON table
//	GET  /api/health         liveness with runtime details
//	GET  /api/health/ready   readiness of registered checks
//
// # Testing
//
// Handlers are tested with httptest against real services.
package http
