// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env files, an optional YAML
// file). It provides type-safe access to the settings needed by the relay
// while keeping configuration details separate from business logic.
//
// Environment variables use the BLOGRELAY_ prefix with nested keys joined by
// underscores (storage.bucket -> BLOGRELAY_STORAGE_BUCKET). The variable names
// used by earlier deployments (S3_BUCKET_NAME, HF_API_TOKEN, HF_API_URL) are
// still honored as fallbacks.
package config
