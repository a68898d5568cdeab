package metrics

import "errors"

var (
	// ErrShapeMismatch is returned when rx and tx disagree on mode count or
	// per-mode length.
	ErrShapeMismatch = errors.New("metrics: rx/tx shape mismatch")

	// ErrEmptyInput is returned when no modes or no symbols are supplied to
	// an estimator that needs data.
	ErrEmptyInput = errors.New("metrics: empty input")

	// ErrDegenerateInput is returned when every elementwise tx/rx ratio is
	// non-finite and no ambiguity rotation can be estimated.
	ErrDegenerateInput = errors.New("metrics: degenerate input")

	// ErrNoiseVariance is returned for a non-positive noise variance.
	ErrNoiseVariance = errors.New("metrics: noise variance must be > 0")

	// ErrPMF is returned for a probability mass function that does not match
	// the constellation or does not sum to 1.
	ErrPMF = errors.New("metrics: invalid pmf")
)
