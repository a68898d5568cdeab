package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongseonghan/optic-link/internal/config"
)

func scenario() config.Scenario {
	return config.Scenario{
		Name:    "test",
		M:       16,
		Type:    "qam",
		EbN0:    config.Sweep{From: 2, To: 10, Step: 4},
		Symbols: 6000,
		Modes:   2,
		Seed:    99,
	}
}

func TestRun_SweepShape(t *testing.T) {
	var seen []float64
	points, err := Run(scenario(), func(p Point) { seen = append(seen, p.EbN0dB) })
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, []float64{2, 6, 10}, seen)

	for _, p := range points {
		assert.Len(t, p.BER, 2)
		assert.Len(t, p.SER, 2)
		assert.Len(t, p.SNR, 2)
		assert.Len(t, p.GMI, 2)
		assert.Len(t, p.MI, 2)
		require.NotNil(t, p.Theory)
		assert.False(t, math.IsNaN(*p.Theory))
		assert.Nil(t, p.FEC)
	}

	// error rates fall and information rates rise along the sweep
	assert.Greater(t, points[0].BER[0], points[2].BER[0])
	assert.Less(t, points[0].GMI[0], points[2].GMI[0])
	assert.Less(t, points[0].SNR[0], points[2].SNR[0])
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(scenario(), nil)
	require.NoError(t, err)
	b, err := Run(scenario(), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_NoTheoryForPAM(t *testing.T) {
	sc := scenario()
	sc.M = 4
	sc.Type = "pam"
	sc.Modes = 1
	sc.Symbols = 2000

	points, err := Run(sc, nil)
	require.NoError(t, err)
	for _, p := range points {
		assert.Nil(t, p.Theory)
	}
}

func TestRun_WithFEC(t *testing.T) {
	sc := scenario()
	sc.M = 4
	sc.Modes = 1
	sc.Symbols = 2000
	sc.EbN0 = config.Sweep{From: 8, To: 8, Step: 1}
	sc.FEC = config.FEC{Enabled: true, DataShards: 50, ParityShards: 14, PayloadBytes: 1000}

	points, err := Run(sc, nil)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.NotNil(t, points[0].FEC)
	assert.LessOrEqual(t, points[0].FEC.PostFECBER, points[0].FEC.PreFECBER)
}

func TestRun_InvalidScenario(t *testing.T) {
	sc := scenario()
	sc.Symbols = 0
	_, err := Run(sc, nil)
	assert.Error(t, err)
}
