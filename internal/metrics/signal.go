package metrics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/stat"
)

// SignalPower returns the average power of x: mean(|x|^2).
func SignalPower(x []complex128) float64 {
	if len(x) == 0 {
		return 0
	}
	var p float64
	for _, v := range x {
		p += real(v)*real(v) + imag(v)*imag(v)
	}
	return p / float64(len(x))
}

// Pnorm returns a copy of x rescaled to unit average power.
func Pnorm(x []complex128) []complex128 {
	s := 1 / math.Sqrt(SignalPower(x))
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v * complex(s, 0)
	}
	return out
}

// CorrectAmbiguity estimates a single complex rotation/scaling factor as the
// mean of the elementwise tx/rx ratio and returns rx with that factor
// applied. It removes the global phase and amplitude ambiguity left by the
// channel before any distance-based decision is made.
//
// Zero-magnitude rx samples produce non-finite ratios; those samples are
// skipped. If no finite ratio remains the input is degenerate and
// ErrDegenerateInput is returned.
func CorrectAmbiguity(rx, tx []complex128) ([]complex128, error) {
	if len(rx) != len(tx) {
		return nil, ErrShapeMismatch
	}

	var rot complex128
	n := 0
	for i := range rx {
		r := tx[i] / rx[i]
		if cmplx.IsNaN(r) || cmplx.IsInf(r) {
			continue
		}
		rot += r
		n++
	}
	if n == 0 {
		return nil, ErrDegenerateInput
	}
	rot /= complex(float64(n), 0)

	out := make([]complex128, len(rx))
	for i, v := range rx {
		out[i] = rot * v
	}
	return out, nil
}

// SingleMode wraps a 1-D symbol sequence as a one-mode 2-D input.
func SingleMode(x []complex128) [][]complex128 {
	return [][]complex128{x}
}

// noiseVariance estimates the per-mode noise variance as the sample
// variance of d = rx - tx, with the real and imaginary parts treated as
// independent noise dimensions.
func noiseVariance(rx, tx []complex128) float64 {
	re := make([]float64, len(rx))
	im := make([]float64, len(rx))
	for i := range rx {
		d := rx[i] - tx[i]
		re[i] = real(d)
		im[i] = imag(d)
	}
	return stat.Variance(re, nil) + stat.Variance(im, nil)
}

// checkShape validates that rx and tx hold the same, non-empty mode layout.
func checkShape(rx, tx [][]complex128) error {
	if len(rx) == 0 || len(tx) == 0 {
		return ErrEmptyInput
	}
	if len(rx) != len(tx) {
		return ErrShapeMismatch
	}
	for k := range rx {
		if len(rx[k]) != len(tx[k]) {
			return ErrShapeMismatch
		}
		if len(rx[k]) == 0 {
			return ErrEmptyInput
		}
	}
	return nil
}
