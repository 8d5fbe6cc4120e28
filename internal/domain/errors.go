package domain

import "errors"

var (
	// ErrEmptyInput is returned by aggregations that are undefined over an
	// empty input, instead of silently coercing a division by zero.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidComparison is returned when a run is compared against
	// itself; a zero-delta comparison would hide a selection bug upstream.
	ErrInvalidComparison = errors.New("cannot compare a run to itself")

	// ErrUnknownMetric is returned for a series metric the engine does not
	// recognize.
	ErrUnknownMetric = errors.New("unknown series metric")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)
