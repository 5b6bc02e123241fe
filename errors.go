package snesim

import "errors"

// Error kinds returned by this package. Callers can compare with errors.Is.
var (
	// ErrGridDimensionMismatch is returned when geometric operands (index
	// add/subtract, neighbor offsets) have inconsistent dimensionality.
	ErrGridDimensionMismatch = errors.New("snesim: grid dimension mismatch")

	// ErrOutOfRange is returned when an index or array position falls
	// outside its declared extents. This is distinct from a missing value,
	// which is a normal, expected state.
	ErrOutOfRange = errors.New("snesim: index out of range")

	// ErrTooManyCategories is returned when a training image has more than
	// ten distinct non-missing categories at tree construction time.
	ErrTooManyCategories = errors.New("snesim: training image has more than 10 categories")

	// ErrPrecondition is returned for programming-error-class inputs: an
	// empty sampler distribution, a non-positive weight total, K<=0,
	// non-positive template ratios, or a multi-grid factor < 1.
	ErrPrecondition = errors.New("snesim: precondition violated")

	// ErrIOFormat is returned for a malformed GSLIB header or a record with
	// fewer columns than declared properties.
	ErrIOFormat = errors.New("snesim: malformed file format")
)
