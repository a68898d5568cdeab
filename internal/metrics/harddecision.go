package metrics

import "math"

// HardDecision maps each received symbol to the nearest constellation point
// (minimum Euclidean distance, first minimum wins on ties) and emits that
// point's bits from bitMap. The result has len(rx)*b bits, with the bits of
// symbol i at positions [i*b, i*b+b).
//
// rx must already be scaled to the constellation's energy scale.
func HardDecision(rx, constSymb []complex128, bitMap [][]byte) []byte {
	b := len(bitMap[0])
	dec := make([]byte, len(rx)*b)

	for i, s := range rx {
		minDist := math.MaxFloat64
		minIdx := 0
		for j, c := range constSymb {
			d := real(s-c)*real(s-c) + imag(s-c)*imag(s-c)
			if d < minDist {
				minDist = d
				minIdx = j
			}
		}
		copy(dec[i*b:(i+1)*b], bitMap[minIdx])
	}
	return dec
}

// nearestIndex returns the index of the constellation point closest to s.
func nearestIndex(s complex128, constSymb []complex128) int {
	minDist := math.MaxFloat64
	minIdx := 0
	for j, c := range constSymb {
		d := real(s-c)*real(s-c) + imag(s-c)*imag(s-c)
		if d < minDist {
			minDist = d
			minIdx = j
		}
	}
	return minIdx
}
