package availability

import "errors"

// Request-level failures, surfaced to the caller and never retried.
// Per-source and per-event failures are recovered locally by the fetcher
// and never appear as errors at this level.
var (
	ErrUnitNotFound = errors.New("unit not found")
	ErrInvalidRange = errors.New("invalid date range")
)
