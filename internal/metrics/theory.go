package metrics

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

// QFunc is the tail probability of the standard normal distribution,
// Q(x) = 0.5 * erfc(x / sqrt(2)).
func QFunc(x float64) float64 {
	return 0.5 * math.Erfc(x/math.Sqrt2)
}

// TheoryBER returns the closed-form approximate bit-error probability for
// square M-QAM or M-PSK in AWGN at the given Eb/N0 (dB). It is independent
// of simulated data and serves as a cross-check for the Monte Carlo
// estimators.
func TheoryBER(m int, ebN0dB float64, t constellation.Type) (float64, error) {
	if m < 2 || m&(m-1) != 0 {
		return 0, fmt.Errorf("%w: M=%d is not a power of two", constellation.ErrModOrder, m)
	}
	ebN0 := math.Pow(10, ebN0dB/10)
	k := float64(constellation.BitsPerSymbol(m))

	switch t {
	case constellation.QAM:
		l := math.Sqrt(float64(m))
		if math.Round(l)*math.Round(l) != float64(m) {
			return 0, fmt.Errorf("%w: M=%d is not a square QAM order", constellation.ErrModOrder, m)
		}
		arg := math.Sqrt(3 * math.Log2(l) / (l*l - 1) * (2 * ebN0))
		return 2 * (1 - 1/l) / math.Log2(l) * QFunc(arg), nil
	case constellation.PSK:
		ps := 2 * QFunc(math.Sqrt(2*k*ebN0)*math.Sin(math.Pi/float64(m)))
		return ps / k, nil
	default:
		return 0, fmt.Errorf("%w: no closed form for %q", constellation.ErrUnsupportedType, t)
	}
}
