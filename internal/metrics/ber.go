package metrics

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

// BERResult holds Monte Carlo error-rate estimates, one value per mode.
type BERResult struct {
	BER []float64 // bit-error-rate
	SER []float64 // symbol-error-rate
	SNR []float64 // estimated SNR of the received constellation, dB
}

// BERCalc estimates BER, SER and SNR per mode from transmitted and received
// symbol sequences. rx and tx carry one slice per mode; corresponding modes
// must have equal length. Each mode is normalized to unit power, corrected
// for a global phase/amplitude ambiguity against its reference, and hard
// decided against the Gray-mapped constellation for (m, t).
//
// For a mode with zero post-correction residual (rx == tx) the SNR is +Inf.
func BERCalc(rx, tx [][]complex128, m int, t constellation.Type) (BERResult, error) {
	if err := checkShape(rx, tx); err != nil {
		return BERResult{}, err
	}

	constSymb, err := constellation.GrayMapping(m, t)
	if err != nil {
		return BERResult{}, err
	}
	bitMap, err := constellation.DemodulateGray(constSymb, m, t)
	if err != nil {
		return BERResult{}, err
	}
	sqrtEs := math.Sqrt(constellation.Energy(constSymb))
	b := constellation.BitsPerSymbol(m)

	nModes := len(rx)
	res := BERResult{
		BER: make([]float64, nModes),
		SER: make([]float64, nModes),
		SNR: make([]float64, nModes),
	}

	for k := 0; k < nModes; k++ {
		rxk := Pnorm(rx[k])
		txk := Pnorm(tx[k])

		rxk, err = CorrectAmbiguity(rxk, txk)
		if err != nil {
			return BERResult{}, fmt.Errorf("mode %d: %w", k, err)
		}

		// post-correction residual defines the noise estimate
		diff := make([]complex128, len(rxk))
		for i := range rxk {
			diff[i] = rxk[i] - txk[i]
		}
		res.SNR[k] = 10 * math.Log10(SignalPower(txk)/SignalPower(diff))

		brx := HardDecision(scale(rxk, sqrtEs), constSymb, bitMap)
		btx := HardDecision(scale(txk, sqrtEs), constSymb, bitMap)

		bitErrs, symErrs := 0, 0
		nSymb := len(rxk)
		for i := 0; i < nSymb; i++ {
			symErr := false
			for j := 0; j < b; j++ {
				if brx[i*b+j] != btx[i*b+j] {
					bitErrs++
					symErr = true
				}
			}
			if symErr {
				symErrs++
			}
		}
		res.BER[k] = float64(bitErrs) / float64(nSymb*b)
		res.SER[k] = float64(symErrs) / float64(nSymb)
	}
	return res, nil
}

func scale(x []complex128, s float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = v * complex(s, 0)
	}
	return out
}
