package bitmask

import "errors"

// ErrOutOfBounds is returned when a coordinate lies outside a mask.
var ErrOutOfBounds = errors.New("bitmask: coordinate out of bounds")

// ErrInvalidArgument is returned for negative dimensions, non-positive
// strides and similar malformed arguments.
var ErrInvalidArgument = errors.New("bitmask: invalid argument")

// ErrAllocation is returned when the scratch or output buffers an operation
// needs would exceed the configured pixel limit. No partial result is
// returned alongside it.
var ErrAllocation = errors.New("bitmask: cannot allocate buffers")
