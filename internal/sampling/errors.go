package sampling

import "errors"

var (
	// ErrInvalidTarget reports a requested sample size of zero or less.
	// Fatal to that one sampling request only.
	ErrInvalidTarget = errors.New("sampling: target size must be positive")

	// ErrEmptyPopulation reports that no entries are available to sample.
	ErrEmptyPopulation = errors.New("sampling: population is empty")
)
