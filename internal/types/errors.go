package types

import "errors"

// Sentinel errors for the generation pipeline. Only ErrDataNotFound may reach
// the HTTP caller as a failure; everything else is absorbed internally.
var (
	// ErrDataNotFound means the catalog returned zero places for a region.
	ErrDataNotFound = errors.New("no places found for region")

	// ErrUpstreamModel covers timeouts, rate limits and invalid responses
	// from the generative endpoint after retries were exhausted.
	ErrUpstreamModel = errors.New("generative model request failed")

	// ErrSerialization means the model answered but the payload was not
	// valid structured data even after repair.
	ErrSerialization = errors.New("generative model returned malformed data")

	// ErrCacheMiss signals a fingerprint with no stored itinerary. Cache
	// infrastructure failures are reported as a miss as well.
	ErrCacheMiss = errors.New("itinerary cache miss")
)
