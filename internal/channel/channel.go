package channel

import (
	"math"
	"math/rand"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

// Source generates reproducible random bits and constellation symbols.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a source with a fixed seed for reproducible runs.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Bits returns n uniformly random bits.
func (s *Source) Bits(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(s.rng.Intn(2))
	}
	return out
}

// Bytes returns n uniformly random bytes.
func (s *Source) Bytes(n int) []byte {
	out := make([]byte, n)
	s.rng.Read(out)
	return out
}

// Symbols draws n symbols uniformly from constSymb and returns them with
// the corresponding transmitted bits (b per symbol, per bitMap).
func (s *Source) Symbols(n int, constSymb []complex128, bitMap [][]byte) ([]complex128, []byte) {
	b := len(bitMap[0])
	symb := make([]complex128, n)
	bits := make([]byte, n*b)
	for i := 0; i < n; i++ {
		idx := s.rng.Intn(len(constSymb))
		symb[i] = constSymb[idx]
		copy(bits[i*b:(i+1)*b], bitMap[idx])
	}
	return symb, bits
}

// Modulate maps a bit sequence onto constellation symbols, b bits per
// symbol, MSB first. len(bits) must be a multiple of b.
func Modulate(bits []byte, constSymb []complex128, b int) []complex128 {
	n := len(bits) / b
	symb := make([]complex128, n)
	for i := 0; i < n; i++ {
		symb[i] = constSymb[constellation.BitsToIndex(bits[i*b:(i+1)*b])]
	}
	return symb
}

// AWGN injects circular additive white Gaussian noise.
type AWGN struct {
	rng *rand.Rand
}

// NewAWGN creates a noise generator with a fixed seed.
func NewAWGN(seed int64) *AWGN {
	return &AWGN{rng: rand.New(rand.NewSource(seed))}
}

// AddNoise returns x plus circular complex Gaussian noise of total
// variance sigma2 (sigma2/2 per quadrature).
func (a *AWGN) AddNoise(x []complex128, sigma2 float64) []complex128 {
	sd := math.Sqrt(sigma2 / 2)
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v + complex(a.rng.NormFloat64()*sd, a.rng.NormFloat64()*sd)
	}
	return out
}

// NoiseVariance converts Eb/N0 in dB to the total complex noise variance
// for a unit-energy constellation carrying bitsPerSymbol bits.
func NoiseVariance(ebN0dB float64, bitsPerSymbol int) float64 {
	ebN0 := math.Pow(10, ebN0dB/10)
	return 1 / (float64(bitsPerSymbol) * ebN0)
}
