package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
scenarios:
  - name: qam16-sweep
    m: 16
    type: qam
    ebn0: {from: 0, to: 20, step: 2}
    symbols: 50000
    modes: 2
    seed: 42
  - name: ook-coded
    m: 2
    type: pam
    ebn0: {from: 4, to: 12, step: 4}
    symbols: 20000
    modes: 1
    seed: 7
    fec:
      enabled: true
      dataShards: 223
      parityShards: 32
      payloadBytes: 2000
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Scenarios, 2)

	assert.Equal(t, []string{"qam16-sweep", "ook-coded"}, f.Names())

	s, err := f.Scenario("qam16-sweep")
	require.NoError(t, err)
	assert.Equal(t, 16, s.M)
	assert.Equal(t, "qam", s.Type)
	assert.Equal(t, 2, s.Modes)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20}, s.EbN0.Points())

	coded, err := f.Scenario("ook-coded")
	require.NoError(t, err)
	assert.True(t, coded.FEC.Enabled)
	assert.Equal(t, 223, coded.FEC.DataShards)

	_, err = f.Scenario("missing")
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", `scenarios: []`},
		{"bad order", `
scenarios:
  - {name: x, m: 12, type: qam, ebn0: {from: 0, to: 4, step: 1}, symbols: 100, modes: 1}`},
		{"bad type", `
scenarios:
  - {name: x, m: 16, type: apsk, ebn0: {from: 0, to: 4, step: 1}, symbols: 100, modes: 1}`},
		{"bad sweep", `
scenarios:
  - {name: x, m: 16, type: qam, ebn0: {from: 4, to: 0, step: 1}, symbols: 100, modes: 1}`},
		{"zero symbols", `
scenarios:
  - {name: x, m: 16, type: qam, ebn0: {from: 0, to: 4, step: 1}, symbols: 0, modes: 1}`},
		{"pmf size", `
scenarios:
  - {name: x, m: 4, type: qam, ebn0: {from: 0, to: 4, step: 1}, symbols: 100, modes: 1, pmf: [0.5, 0.5]}`},
		{"fec incomplete", `
scenarios:
  - name: x
    m: 4
    type: qam
    ebn0: {from: 0, to: 4, step: 1}
    symbols: 100
    modes: 1
    fec: {enabled: true}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSweep_Points(t *testing.T) {
	assert.Equal(t, []float64{5}, Sweep{From: 5, To: 5, Step: 1}.Points())
	assert.Len(t, Sweep{From: 0, To: 1, Step: 0.25}.Points(), 5)
}
