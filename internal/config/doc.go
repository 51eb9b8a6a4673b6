// Package config provides centralized configuration management for the cleaner tools.
// It loads configuration from multiple sources, validates it, and resolves
// the directories the tools write to.
//
// # Configuration Sources
//
// Configuration is assembled in this order, later sources overriding earlier ones:
//
//	1. Default values (Default)
//	2. YAML file (config.yaml or configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables use the CLEANER_ prefix and the section name:
//
//	CLEANER_CLEANING_STRATEGY=median
//	CLEANER_CLEANING_Z_THRESHOLD=2.5
//	CLEANER_LOGGING_LEVEL=debug
//	CLEANER_SERVER_PORT=9000
//	CLEANER_TELEMETRY_ENABLE_METRICS=false
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// returns the validation errors wrapped; an invalid strategy or a
// non-positive z threshold never reaches the pipeline.
package config
