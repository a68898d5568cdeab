package fec

import (
	"fmt"
	"math"

	"github.com/jeongseonghan/optic-link/internal/channel"
	"github.com/jeongseonghan/optic-link/internal/constellation"
	"github.com/jeongseonghan/optic-link/internal/metrics"
)

// LinkParams configures one coded transmission over the simulated channel.
type LinkParams struct {
	M            int
	Type         constellation.Type
	EbN0dB       float64
	DataShards   int
	ParityShards int
	Seed         int64
}

// LinkReport summarizes a coded run.
type LinkReport struct {
	PreFECBER  float64 // raw channel bit-error rate over the wire bits
	PostFECBER float64 // payload bit-error rate after reconstruction
	Corrupted  int     // shards flagged by CRC
	Recovered  bool    // reconstruction stayed within the code's capability
}

// EvaluateCodedLink sends payload Reed-Solomon coded through an AWGN
// channel at the given Eb/N0 and measures the bit-error rate before and
// after forward error correction.
func EvaluateCodedLink(payload []byte, p LinkParams) (LinkReport, error) {
	coder, err := NewCoder(p.DataShards, p.ParityShards)
	if err != nil {
		return LinkReport{}, err
	}

	constSymb, err := constellation.GrayMapping(p.M, p.Type)
	if err != nil {
		return LinkReport{}, err
	}
	unit := constellation.Scale(constSymb, 1/math.Sqrt(constellation.Energy(constSymb)))
	bitMap, err := constellation.DemodulateGray(constSymb, p.M, p.Type)
	if err != nil {
		return LinkReport{}, err
	}
	b := constellation.BitsPerSymbol(p.M)

	wire, err := coder.Encode(payload)
	if err != nil {
		return LinkReport{}, err
	}

	txBits := bytesToBits(wire)
	// pad to a whole number of symbols
	for len(txBits)%b != 0 {
		txBits = append(txBits, 0)
	}

	tx := channel.Modulate(txBits, unit, b)
	noisy := channel.NewAWGN(p.Seed)
	rx := noisy.AddNoise(tx, channel.NoiseVariance(p.EbN0dB, b))

	rxBits := metrics.HardDecision(rx, unit, bitMap)

	nWire := len(wire) * 8
	errs := 0
	for i := 0; i < nWire; i++ {
		if txBits[i] != rxBits[i] {
			errs++
		}
	}

	decoded, corrupted, recovered, err := coder.Decode(bitsToBytes(rxBits[:nWire]), len(payload))
	if err != nil {
		return LinkReport{}, fmt.Errorf("decode received wire: %w", err)
	}

	payloadErrs := 0
	for i := range payload {
		diff := payload[i] ^ decoded[i]
		for diff != 0 {
			diff &= diff - 1
			payloadErrs++
		}
	}

	return LinkReport{
		PreFECBER:  float64(errs) / float64(nWire),
		PostFECBER: float64(payloadErrs) / float64(len(payload)*8),
		Corrupted:  corrupted,
		Recovered:  recovered,
	}, nil
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, v := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (v>>i)&1)
		}
	}
	return bits
}

func bitsToBytes(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for j := 0; j < 8; j++ {
			v = v<<1 | bits[i*8+j]&1
		}
		out[i] = v
	}
	return out
}
