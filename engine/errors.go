/*
errors.go - Centralized error types

PURPOSE:
  The computation core itself never returns errors: malformed input
  degrades to safe defaults (see normalize.go and pipeline.go). The
  sentinels here belong to the collaborating layers — stores, config
  parsing, the HTTP boundary — which wrap them with context.

USAGE:
  if errors.Is(err, engine.ErrSnapshotNotFound) { ... }
*/
package engine

import "errors"

var (
	// ErrSnapshotNotFound is returned by stores when no snapshot exists
	// for the requested unit and period.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidConfig is returned when an operator-supplied
	// configuration fails validation.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrInvalidPeriod is returned for unparseable period keys.
	ErrInvalidPeriod = errors.New("invalid period")
)

// IsNotFound reports whether the error indicates missing data.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}

// IsClientError reports whether the error stems from invalid input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrInvalidPeriod)
}
