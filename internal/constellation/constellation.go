package constellation

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Type identifies a constellation family.
type Type string

const (
	QAM Type = "qam" // square quadrature amplitude modulation
	PSK Type = "psk" // phase shift keying
	PAM Type = "pam" // pulse amplitude modulation (M=2 is OOK-equivalent)
)

var (
	// ErrUnsupportedType is returned for a constellation family outside qam/psk/pam.
	ErrUnsupportedType = errors.New("constellation: unsupported type")
	// ErrModOrder is returned when M is not a valid order for the family.
	ErrModOrder = errors.New("constellation: invalid modulation order")
)

// BitsPerSymbol returns log2(m).
func BitsPerSymbol(m int) int {
	return bits.Len(uint(m)) - 1
}

func isPowerOfTwo(m int) bool {
	return m >= 2 && m&(m-1) == 0
}

// GrayMapping returns the M constellation points for the given family.
// The point at index i carries the bit label binary(i); points are placed
// so that neighbors in signal space differ in exactly one label bit.
// Points are NOT normalized; use Energy/WeightedEnergy for scaling.
func GrayMapping(m int, t Type) ([]complex128, error) {
	if !isPowerOfTwo(m) {
		return nil, fmt.Errorf("%w: M=%d is not a power of two", ErrModOrder, m)
	}

	points := make([]complex128, m)

	switch t {
	case PAM:
		// amplitude levels -(M-1), ..., -1, 1, ..., M-1
		for k := 0; k < m; k++ {
			points[grayCode(k)] = complex(float64(2*k-m+1), 0)
		}
	case PSK:
		for k := 0; k < m; k++ {
			phi := 2 * math.Pi * float64(k) / float64(m)
			points[grayCode(k)] = complex(math.Cos(phi), math.Sin(phi))
		}
	case QAM:
		side := int(math.Round(math.Sqrt(float64(m))))
		if side*side != m || !isPowerOfTwo(side) {
			return nil, fmt.Errorf("%w: M=%d is not a square QAM order", ErrModOrder, m)
		}
		// Independent Gray coding per dimension: the high half of the
		// label selects the quadrature row, the low half the in-phase
		// column (same scheme as a pair of orthogonal PAMs).
		half := BitsPerSymbol(side)
		for row := 0; row < side; row++ {
			for col := 0; col < side; col++ {
				label := grayCode(row)<<half | grayCode(col)
				points[label] = complex(
					float64(2*col-side+1),
					float64(2*row-side+1),
				)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}

	return points, nil
}

// DemodulateGray returns the M x log2(M) bit map for the given symbols:
// row i is the bit label of the nearest Gray-mapped constellation point
// to constSymb[i]. Applied to the constellation itself it recovers each
// point's own label.
func DemodulateGray(constSymb []complex128, m int, t Type) ([][]byte, error) {
	ref, err := GrayMapping(m, t)
	if err != nil {
		return nil, err
	}
	b := BitsPerSymbol(m)

	bitMap := make([][]byte, len(constSymb))
	for i, s := range constSymb {
		bitMap[i] = IndexToBits(nearest(s, ref), b)
	}
	return bitMap, nil
}

// Energy returns the mean symbol energy of the constellation.
func Energy(constSymb []complex128) float64 {
	var es float64
	for _, c := range constSymb {
		es += real(c)*real(c) + imag(c)*imag(c)
	}
	return es / float64(len(constSymb))
}

// WeightedEnergy returns the symbol energy averaged under the pmf px.
func WeightedEnergy(constSymb []complex128, px []float64) float64 {
	var es float64
	for i, c := range constSymb {
		es += (real(c)*real(c) + imag(c)*imag(c)) * px[i]
	}
	return es
}

// Scale returns constSymb with every point multiplied by s.
func Scale(constSymb []complex128, s float64) []complex128 {
	out := make([]complex128, len(constSymb))
	for i, c := range constSymb {
		out[i] = c * complex(s, 0)
	}
	return out
}

func nearest(s complex128, ref []complex128) int {
	minDist := math.MaxFloat64
	minIdx := 0
	for i, p := range ref {
		d := real(s-p)*real(s-p) + imag(s-p)*imag(s-p)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx
}

func grayCode(k int) int {
	return k ^ (k >> 1)
}

// IndexToBits expands idx into numBits bits, MSB first.
func IndexToBits(idx, numBits int) []byte {
	out := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		out[i] = byte(idx & 1)
		idx >>= 1
	}
	return out
}

// BitsToIndex packs bits (MSB first) into an integer index.
func BitsToIndex(b []byte) int {
	idx := 0
	for _, bit := range b {
		idx = (idx << 1) | int(bit&1)
	}
	return idx
}
