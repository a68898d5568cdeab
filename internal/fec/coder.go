package fec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/reedsolomon"
)

// Default code geometry, RS(255,223).
const (
	DefaultDataShards   = 223
	DefaultParityShards = 32
)

const crcLen = 4

// ErrShardSize is returned when wire data does not split evenly into shards.
var ErrShardSize = errors.New("fec: wire length not divisible by shard count")

// Coder applies Reed-Solomon coding to a payload and recovers it from a
// channel-corrupted copy. Each shard carries a CRC-32 so that corrupted
// shards can be flagged as erasures for reconstruction.
type Coder struct {
	enc          reedsolomon.Encoder
	dataShards   int
	parityShards int
}

// NewCoder creates a Reed-Solomon coder with the given shard counts.
func NewCoder(dataShards, parityShards int) (*Coder, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("create reed-solomon coder: %w", err)
	}
	return &Coder{
		enc:          enc,
		dataShards:   dataShards,
		parityShards: parityShards,
	}, nil
}

// DataShards returns the number of data shards.
func (c *Coder) DataShards() int { return c.dataShards }

// ParityShards returns the number of parity shards.
func (c *Coder) ParityShards() int { return c.parityShards }

// Encode splits payload into data shards, computes parity, and returns the
// wire bytes: every shard (data then parity) followed by its CRC-32. The
// payload is zero-padded to a whole number of shards.
func (c *Coder) Encode(payload []byte) ([]byte, error) {
	total := c.dataShards + c.parityShards
	shardSize := (len(payload) + c.dataShards - 1) / c.dataShards
	if shardSize == 0 {
		shardSize = 1
	}

	shards := make([][]byte, total)
	for i := 0; i < c.dataShards; i++ {
		shards[i] = make([]byte, shardSize)
		start := i * shardSize
		if start < len(payload) {
			end := start + shardSize
			if end > len(payload) {
				end = len(payload)
			}
			copy(shards[i], payload[start:end])
		}
	}
	for i := c.dataShards; i < total; i++ {
		shards[i] = make([]byte, shardSize)
	}

	if err := c.enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	wire := make([]byte, 0, total*(shardSize+crcLen))
	for _, s := range shards {
		wire = append(wire, s...)
		wire = binary.BigEndian.AppendUint32(wire, crc32.ChecksumIEEE(s))
	}
	return wire, nil
}

// Decode recovers the payload from received wire bytes. Shards whose CRC-32
// no longer matches are treated as erasures. It returns the recovered
// payload (truncated to payloadLen), the number of corrupted shards, and
// whether reconstruction succeeded; on failure the raw received data shards
// are returned instead.
func (c *Coder) Decode(wire []byte, payloadLen int) (payload []byte, corrupted int, recovered bool, err error) {
	total := c.dataShards + c.parityShards
	if len(wire)%total != 0 {
		return nil, 0, false, ErrShardSize
	}
	wireShard := len(wire) / total
	if wireShard <= crcLen {
		return nil, 0, false, ErrShardSize
	}
	shardSize := wireShard - crcLen

	shards := make([][]byte, total)
	raw := make([][]byte, total)
	for i := 0; i < total; i++ {
		chunk := wire[i*wireShard : (i+1)*wireShard]
		body := make([]byte, shardSize)
		copy(body, chunk[:shardSize])
		raw[i] = body

		want := binary.BigEndian.Uint32(chunk[shardSize:])
		if crc32.ChecksumIEEE(body) == want {
			shards[i] = body
		} else {
			corrupted++
		}
	}

	if err := c.enc.Reconstruct(shards); err != nil {
		// beyond the code's correction capability: hand back what arrived
		return assemble(raw[:c.dataShards], payloadLen), corrupted, false, nil
	}
	return assemble(shards[:c.dataShards], payloadLen), corrupted, true, nil
}

func assemble(dataShards [][]byte, payloadLen int) []byte {
	out := make([]byte, 0, payloadLen)
	for _, s := range dataShards {
		out = append(out, s...)
	}
	if len(out) > payloadLen {
		out = out[:payloadLen]
	}
	return out
}
