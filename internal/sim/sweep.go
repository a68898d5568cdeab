package sim

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/optic-link/internal/channel"
	"github.com/jeongseonghan/optic-link/internal/config"
	"github.com/jeongseonghan/optic-link/internal/constellation"
	"github.com/jeongseonghan/optic-link/internal/fec"
	"github.com/jeongseonghan/optic-link/internal/metrics"
)

// Point holds every estimate collected at one Eb/N0 value. The per-mode
// slices are indexed by mode.
type Point struct {
	EbN0dB float64   `json:"ebn0dB"`
	BER    []float64 `json:"ber"`
	SER    []float64 `json:"ser"`
	SNR    []float64 `json:"snr"`
	GMI    []float64 `json:"gmi"`
	MI     []float64 `json:"mi"`
	// Theory is the closed-form BER reference; nil for families without
	// a closed form (pam).
	Theory *float64 `json:"theory,omitempty"`
	// FEC is present when the scenario enables coded evaluation.
	FEC *fec.LinkReport `json:"fec,omitempty"`
}

// Run executes one scenario: for every Eb/N0 in the sweep it generates
// random symbols per mode, passes them through an AWGN channel and collects
// BER/SER/SNR, GMI, MI and the theoretical reference. Runs are
// deterministic for a given scenario seed; each mode draws from its own
// stream so per-mode results depend only on that mode's data.
//
// progress, if non-nil, is called with each finished point in sweep order.
func Run(sc config.Scenario, progress func(Point)) ([]Point, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	constSymb, err := constellation.GrayMapping(sc.M, sc.ConstType())
	if err != nil {
		return nil, err
	}
	bitMap, err := constellation.DemodulateGray(constSymb, sc.M, sc.ConstType())
	if err != nil {
		return nil, err
	}
	unit := constellation.Scale(constSymb, 1/math.Sqrt(constellation.Energy(constSymb)))
	b := constellation.BitsPerSymbol(sc.M)

	ebN0s := sc.EbN0.Points()
	points := make([]Point, 0, len(ebN0s))

	for pi, ebN0 := range ebN0s {
		sigma2 := channel.NoiseVariance(ebN0, b)

		rx := make([][]complex128, sc.Modes)
		tx := make([][]complex128, sc.Modes)
		for k := 0; k < sc.Modes; k++ {
			// one stream per (point, mode) pair
			streamSeed := sc.Seed + int64(pi*sc.Modes+k)
			src := channel.NewSource(streamSeed)
			noisy := channel.NewAWGN(streamSeed + 7919)

			tx[k], _ = src.Symbols(sc.Symbols, unit, bitMap)
			rx[k] = noisy.AddNoise(tx[k], sigma2)
		}

		ber, err := metrics.BERCalc(rx, tx, sc.M, sc.ConstType())
		if err != nil {
			return nil, fmt.Errorf("ebn0 %v dB: %w", ebN0, err)
		}
		gmi, err := metrics.MonteCarloGMI(rx, tx, sc.M, sc.ConstType())
		if err != nil {
			return nil, fmt.Errorf("ebn0 %v dB: %w", ebN0, err)
		}
		mi, err := metrics.MonteCarloMI(rx, tx, sc.M, sc.ConstType(), sc.PMF)
		if err != nil {
			return nil, fmt.Errorf("ebn0 %v dB: %w", ebN0, err)
		}

		p := Point{
			EbN0dB: ebN0,
			BER:    ber.BER,
			SER:    ber.SER,
			SNR:    ber.SNR,
			GMI:    gmi.GMI,
			MI:     mi,
		}
		if theory, err := metrics.TheoryBER(sc.M, ebN0, sc.ConstType()); err == nil {
			p.Theory = &theory
		}

		if sc.FEC.Enabled {
			payload := channel.NewSource(sc.Seed).Bytes(sc.FEC.PayloadBytes)
			rep, err := fec.EvaluateCodedLink(payload, fec.LinkParams{
				M:            sc.M,
				Type:         sc.ConstType(),
				EbN0dB:       ebN0,
				DataShards:   sc.FEC.DataShards,
				ParityShards: sc.FEC.ParityShards,
				Seed:         sc.Seed + int64(pi),
			})
			if err != nil {
				return nil, fmt.Errorf("ebn0 %v dB: coded link: %w", ebN0, err)
			}
			p.FEC = &rep
		}

		points = append(points, p)
		if progress != nil {
			progress(p)
		}
	}
	return points, nil
}
