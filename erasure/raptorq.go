// Package erasure provides generation-level packet erasure coding, for loss
// models where whole symbols disappear rather than individual bits flipping.
package erasure

import (
	"errors"
	"fmt"

	rqq "github.com/xssnick/raptorq"
)

var (
	// ErrInvalidArgument is returned for non-positive symbol counts or sizes.
	ErrInvalidArgument = errors.New("erasure: invalid argument")

	// ErrDecodeFailed is returned when too few symbols survived.
	ErrDecodeFailed = errors.New("erasure: decode failed")
)

// Symbol is one encoded unit of a generation. Ids below K are systematic
// source symbols, ids at K and above are repair symbols.
type Symbol struct {
	ID   uint32
	Data []byte
}

// Generation encodes one block of payload bytes into N symbols of L bytes
// each, K of them systematic.
type Generation struct {
	n int
	k int
	l int

	rq  *rqq.RaptorQ
	enc *rqq.Encoder
}

// NewGeneration builds the encoder for one generation. The payload is
// clamped to K*L bytes; a shorter payload is padded by the code itself.
func NewGeneration(data []byte, N, K, L int) (*Generation, error) {
	if N <= 0 || K <= 0 || L <= 0 || K > N {
		return nil, fmt.Errorf("%w: N=%d, K=%d, L=%d", ErrInvalidArgument, N, K, L)
	}
	if len(data) > K*L {
		data = data[:K*L]
	}
	rq := rqq.NewRaptorQ(uint32(L))
	enc, err := rq.CreateEncoder(data)
	if err != nil {
		return nil, err
	}
	return &Generation{n: N, k: K, l: L, rq: rq, enc: enc}, nil
}

func (g *Generation) N() int { return g.n }
func (g *Generation) K() int { return g.k }
func (g *Generation) L() int { return g.l }

// Symbol produces the symbol with the given id.
func (g *Generation) Symbol(id uint32) Symbol {
	return Symbol{ID: id, Data: g.enc.GenSymbol(id)}
}

// Symbols produces the generation's N symbols in id order.
func (g *Generation) Symbols() []Symbol {
	out := make([]Symbol, g.n)
	for i := range out {
		out[i] = g.Symbol(uint32(i))
	}
	return out
}

// Recover reconstructs a generation's payload from whichever symbols
// survived. dataSize is the original payload length in bytes.
func Recover(received []Symbol, dataSize, L int) ([]byte, error) {
	if dataSize < 0 || L <= 0 {
		return nil, fmt.Errorf("%w: dataSize=%d, L=%d", ErrInvalidArgument, dataSize, L)
	}
	rq := rqq.NewRaptorQ(uint32(L))
	dec, err := rq.CreateDecoder(uint32(dataSize))
	if err != nil {
		return nil, err
	}
	for _, s := range received {
		// a rejected symbol is not fatal, later ones may still complete the set
		if _, err := dec.AddSymbol(s.ID, s.Data); err != nil {
			continue
		}
	}
	ok, data, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d symbols received", ErrDecodeFailed, len(received))
	}
	return data, nil
}

// SymbolsRequired reports how many symbols a decoder for dataSize needs in
// the systematic fast path.
func SymbolsRequired(dataSize, L int) (int, error) {
	if dataSize < 0 || L <= 0 {
		return 0, fmt.Errorf("%w: dataSize=%d, L=%d", ErrInvalidArgument, dataSize, L)
	}
	dec, err := rqq.NewRaptorQ(uint32(L)).CreateDecoder(uint32(dataSize))
	if err != nil {
		return 0, err
	}
	return int(dec.FastSymbolsNumRequired()), nil
}
