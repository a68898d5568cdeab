package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

func TestQFunc(t *testing.T) {
	assert.InDelta(t, 0.5, QFunc(0), 1e-12)
	assert.InDelta(t, 0.158655, QFunc(1), 1e-6)
	assert.InDelta(t, 0.022750, QFunc(2), 1e-6)
	assert.InDelta(t, 1.0, QFunc(-10), 1e-12)
}

func TestTheoryBER_16QAMAt10dB(t *testing.T) {
	// 2*(1-1/4)/2 * Q(sqrt(8)) = 0.75 * 0.5 * erfc(2)
	pb, err := TheoryBER(16, 10, constellation.QAM)
	require.NoError(t, err)
	assert.InDelta(t, 1.754e-3, pb, 2e-5)
}

func TestTheoryBER_QPSKAt10dB(t *testing.T) {
	pb, err := TheoryBER(4, 10, constellation.QAM)
	require.NoError(t, err)
	// Q(sqrt(20)), the classic QPSK value
	assert.Greater(t, pb, 3.5e-6)
	assert.Less(t, pb, 4.2e-6)

	// 4-PSK and 4-QAM coincide
	psk, err := TheoryBER(4, 10, constellation.PSK)
	require.NoError(t, err)
	assert.InEpsilon(t, pb, psk, 1e-9)
}

func TestTheoryBER_MonotoneInEbN0(t *testing.T) {
	prev := 1.0
	for ebN0 := 0.0; ebN0 <= 20; ebN0 += 2 {
		pb, err := TheoryBER(16, ebN0, constellation.QAM)
		require.NoError(t, err)
		assert.Less(t, pb, prev, "EbN0=%v dB", ebN0)
		prev = pb
	}
}

func TestTheoryBER_UnsupportedFamily(t *testing.T) {
	_, err := TheoryBER(2, 10, constellation.PAM)
	assert.ErrorIs(t, err, constellation.ErrUnsupportedType)

	_, err = TheoryBER(32, 10, constellation.QAM)
	assert.ErrorIs(t, err, constellation.ErrModOrder)
}

func TestTheoryBER_RejectsNonPowerOfTwoOrder(t *testing.T) {
	for _, m := range []int{0, 1, 3, 6, 12} {
		_, err := TheoryBER(m, 10, constellation.PSK)
		assert.ErrorIs(t, err, constellation.ErrModOrder, "M=%d", m)

		_, err = TheoryBER(m, 10, constellation.QAM)
		assert.ErrorIs(t, err, constellation.ErrModOrder, "M=%d", m)
	}
}
