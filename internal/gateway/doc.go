// Package gateway talks to chat completion providers.
//
// It classifies provider failures into the package's sentinel errors
// and retries transient ones with capped backoff. Authentication
// failures are never retried.
package gateway
