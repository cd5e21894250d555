package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the store catalog cannot be read
	ErrCatalogUnavailable = errors.New("store catalog unavailable")

	// ErrDuplicateStoreID is returned by catalog loaders that find the same id twice
	ErrDuplicateStoreID = errors.New("duplicate store id in catalog")

	// ErrInvalidWeights is returned when scoring weights are out of range or do not sum to 1
	ErrInvalidWeights = errors.New("invalid scoring weights")
)

// ValidationError reports hard-required intake fields that are missing or malformed
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid submission: %s", e.Reason)
	}
	return fmt.Sprintf("invalid submission: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidProfileError is a contract violation: a profile that did not come from the normalizer
type InvalidProfileError struct {
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return "invalid seller profile: " + e.Reason
}
