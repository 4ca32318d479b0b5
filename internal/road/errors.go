package road

import "errors"

var (
	// ErrCriticalFailure means the strength dropped below the configured
	// minimum and the similarity thresholds can no longer tell road from
	// anything else. It aborts the whole run and is never retried.
	ErrCriticalFailure = errors.New("road: critical failure, cannot see")
	// ErrSeedOutOfBounds indicates a flood-fill seed outside the grid.
	ErrSeedOutOfBounds = errors.New("road: seed outside image bounds")
	// ErrEmptyImage indicates an input with zero width or height.
	ErrEmptyImage = errors.New("road: image has no pixels")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("road: invalid configuration")
)
