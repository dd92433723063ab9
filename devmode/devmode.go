// Package devmode provides shared configuration for development mode across
// the client and the dev generation service.
package devmode

// APIKey is the shared development mode API key used by both client and
// dev service. This key is intentionally obvious and should never be used in
// production.
const APIKey = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"

// Addr is where the dev generation service listens by default.
const Addr = "localhost:8000"

// BasePath is the API root the dev service mounts its routes under.
const BasePath = "/api/v1"
