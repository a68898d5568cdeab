package fec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongseonghan/optic-link/internal/constellation"
)

func TestCoder_Roundtrip(t *testing.T) {
	coder, err := NewCoder(10, 4)
	require.NoError(t, err)

	payload := make([]byte, 95)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	wire, err := coder.Encode(payload)
	require.NoError(t, err)
	require.Equal(t, 0, len(wire)%(10+4))

	got, corrupted, recovered, err := coder.Decode(wire, len(payload))
	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Equal(t, 0, corrupted)
	assert.Equal(t, payload, got)
}

func TestCoder_RecoversFromErasures(t *testing.T) {
	coder, err := NewCoder(10, 4)
	require.NoError(t, err)

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(255 - i)
	}

	wire, err := coder.Encode(payload)
	require.NoError(t, err)

	// corrupt 4 whole shards (the code's erasure capability)
	wireShard := len(wire) / 14
	for _, s := range []int{0, 3, 7, 12} {
		for i := 0; i < wireShard; i++ {
			wire[s*wireShard+i] ^= 0x55
		}
	}

	got, corrupted, recovered, err := coder.Decode(wire, len(payload))
	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Equal(t, 4, corrupted)
	assert.Equal(t, payload, got)
}

func TestCoder_TooManyErasures(t *testing.T) {
	coder, err := NewCoder(10, 4)
	require.NoError(t, err)

	payload := make([]byte, 100)
	wire, err := coder.Encode(payload)
	require.NoError(t, err)

	wireShard := len(wire) / 14
	for s := 0; s < 5; s++ {
		wire[s*wireShard] ^= 0xFF
	}

	_, corrupted, recovered, err := coder.Decode(wire, len(payload))
	require.NoError(t, err)
	assert.False(t, recovered)
	assert.Equal(t, 5, corrupted)
}

func TestCoder_BadWireLength(t *testing.T) {
	coder, err := NewCoder(10, 4)
	require.NoError(t, err)

	_, _, _, err = coder.Decode(make([]byte, 141), 10)
	assert.ErrorIs(t, err, ErrShardSize)
}

func TestEvaluateCodedLink_Noiseless(t *testing.T) {
	payload := make([]byte, 500)
	for i := range payload {
		payload[i] = byte(i)
	}

	rep, err := EvaluateCodedLink(payload, LinkParams{
		M: 4, Type: constellation.QAM, EbN0dB: 30,
		DataShards: DefaultDataShards, ParityShards: DefaultParityShards,
		Seed: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, rep.PreFECBER)
	assert.Equal(t, 0.0, rep.PostFECBER)
	assert.Equal(t, 0, rep.Corrupted)
	assert.True(t, rep.Recovered)
}

func TestEvaluateCodedLink_CorrectsModerateNoise(t *testing.T) {
	payload := make([]byte, 2000)
	for i := range payload {
		payload[i] = byte(i * 31)
	}

	rep, err := EvaluateCodedLink(payload, LinkParams{
		M: 4, Type: constellation.QAM, EbN0dB: 7.5,
		DataShards: DefaultDataShards, ParityShards: DefaultParityShards,
		Seed: 2,
	})
	require.NoError(t, err)

	// channel errors present, all cleaned up by the code
	assert.Greater(t, rep.PreFECBER, 0.0)
	assert.True(t, rep.Recovered)
	assert.Equal(t, 0.0, rep.PostFECBER)
	assert.LessOrEqual(t, rep.Corrupted, DefaultParityShards)
}

func TestEvaluateCodedLink_FailsUnderHeavyNoise(t *testing.T) {
	payload := make([]byte, 2000)

	rep, err := EvaluateCodedLink(payload, LinkParams{
		M: 4, Type: constellation.QAM, EbN0dB: 0,
		DataShards: DefaultDataShards, ParityShards: DefaultParityShards,
		Seed: 3,
	})
	require.NoError(t, err)

	assert.False(t, rep.Recovered)
	assert.Greater(t, rep.PostFECBER, 0.0)
}

func TestBytesToBits_Roundtrip(t *testing.T) {
	data := []byte{0xAB, 0xCD, 0x00, 0xFF}
	bits := bytesToBits(data)
	require.Len(t, bits, 32)
	assert.Equal(t, data, bitsToBytes(bits))
}
