package metrics

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

// MonteCarloMI estimates the mutual information per mode by direct channel
// probability integration under a circular AWGN model: MI = H(X) - H(X|Y),
// with H(X|Y) accumulated per sample from the Gaussian likelihood of the
// transmitted symbol and the total likelihood mass over the constellation.
//
// px is the pmf over the M constellation points; nil or empty means
// uniform. The constellation is normalized so its pmf-weighted energy is 1.
// In finite-sample regimes the estimate can slightly exceed log2(M); no
// clamping is applied.
func MonteCarloMI(rx, tx [][]complex128, m int, t constellation.Type, px []float64) ([]float64, error) {
	if err := checkShape(rx, tx); err != nil {
		return nil, err
	}

	if len(px) == 0 {
		px = make([]float64, m)
		for i := range px {
			px[i] = 1 / float64(m)
		}
	} else if len(px) != m {
		return nil, fmt.Errorf("%w: got %d weights for M=%d", ErrPMF, len(px), m)
	} else {
		var sum float64
		for _, p := range px {
			if p < 0 {
				return nil, fmt.Errorf("%w: negative weight", ErrPMF)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			return nil, fmt.Errorf("%w: weights sum to %g", ErrPMF, sum)
		}
	}

	constSymb, err := constellation.GrayMapping(m, t)
	if err != nil {
		return nil, err
	}
	es := constellation.WeightedEnergy(constSymb, px)
	unitSymb := constellation.Scale(constSymb, 1/math.Sqrt(es))

	nModes := len(rx)
	mi := make([]float64, nModes)

	rxNorm := make([][]complex128, nModes)
	txNorm := make([][]complex128, nModes)
	for k := 0; k < nModes; k++ {
		rxNorm[k] = Pnorm(rx[k])
		txNorm[k] = Pnorm(tx[k])
	}

	for k := 0; k < nModes; k++ {
		sigma2 := noiseVariance(rxNorm[k], txNorm[k])
		if sigma2 <= 0 {
			return nil, fmt.Errorf("mode %d: %w", k, ErrNoiseVariance)
		}
		mi[k] = calcMI(rxNorm[k], txNorm[k], sigma2, unitSymb, px)
	}
	return mi, nil
}

// calcMI computes the mutual information of one mode.
func calcMI(rx, tx []complex128, sigma2 float64, constSymb []complex128, px []float64) float64 {
	n := len(rx)
	log2e := math.Log2(math.E)

	var hX float64
	for _, p := range px {
		if p > 0 {
			hX -= p * math.Log2(p)
		}
	}

	var hXgY float64
	for i := 0; i < n; i++ {
		indSymb := nearestIndex(tx[i], constSymb)

		// log2 p(Y|X) for the symbol actually transmitted
		d := rx[i] - tx[i]
		d2 := real(d)*real(d) + imag(d)*imag(d)
		log2pYgX := -d2 / sigma2 * log2e

		// p(Y) = sum over X of p(Y|X) p(X)
		var pY float64
		for j, c := range constSymb {
			e := rx[i] - c
			e2 := real(e)*real(e) + imag(e)*imag(e)
			pY += math.Exp(-e2/sigma2) * px[j]
		}

		hXgY -= log2pYgX + math.Log2(px[indSymb]) - math.Log2(pY)
	}
	hXgY /= float64(n)

	return hX - hXgY
}
