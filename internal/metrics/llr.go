package metrics

import "math"

// LLRClip bounds the magnitude of log-likelihood ratios handed to the GMI
// estimator; without it a zero bit-0 or bit-1 likelihood mass yields ±Inf
// and poisons the downstream entropy averages.
const LLRClip = 500.0

// CalcLLR computes per-bit log-likelihood ratios for rx under a circular
// AWGN channel with noise variance sigma2. constSymb must be scaled to unit
// average energy. The result has len(rx)*b values with the same bit
// ordering as HardDecision: LLR = log(sum of bit=0 likelihoods) - log(sum
// of bit=1 likelihoods).
//
// Likelihoods are evaluated in the linear domain; for very small sigma2
// they underflow and the resulting ±Inf LLRs are left for the consumer to
// clip.
func CalcLLR(rx []complex128, sigma2 float64, constSymb []complex128, bitMap [][]byte) ([]float64, error) {
	if sigma2 <= 0 {
		return nil, ErrNoiseVariance
	}
	b := len(bitMap[0])

	llrs := make([]float64, len(rx)*b)
	prob := make([]float64, len(constSymb))

	for i, s := range rx {
		for j, c := range constSymb {
			d2 := real(s-c)*real(s-c) + imag(s-c)*imag(s-c)
			prob[j] = math.Exp(-d2 / sigma2)
		}

		for indBit := 0; indBit < b; indBit++ {
			var p0, p1 float64
			for j := range prob {
				if bitMap[j][indBit] == 0 {
					p0 += prob[j]
				} else {
					p1 += prob[j]
				}
			}
			llrs[i*b+indBit] = math.Log(p0) - math.Log(p1)
		}
	}
	return llrs, nil
}

// clipLLRs limits every LLR to [-LLRClip, LLRClip] in place.
func clipLLRs(llrs []float64) {
	for i, v := range llrs {
		if v > LLRClip {
			llrs[i] = LLRClip
		} else if v < -LLRClip {
			llrs[i] = -LLRClip
		}
	}
}
