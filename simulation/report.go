package simulation

import (
	"io"
	"time"

	"github.com/francoispqt/gojay"
)

// Point is one Eb/N0 step of a sweep.
type Point struct {
	EbN0           float64
	EsN0           float64
	Sigma          float64
	FramesAnalyzed uint64
	BitErrors      uint64
	FrameErrors    uint64
	BER            float64
	FER            float64
	Elapsed        time.Duration
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (p *Point) MarshalJSONObject(enc *gojay.Encoder) {
	enc.AddFloat64Key("ebn0_db", p.EbN0)
	enc.AddFloat64Key("esn0_db", p.EsN0)
	enc.AddFloat64Key("sigma", p.Sigma)
	enc.AddUint64Key("frames", p.FramesAnalyzed)
	enc.AddUint64Key("bit_errors", p.BitErrors)
	enc.AddUint64Key("frame_errors", p.FrameErrors)
	enc.AddFloat64Key("ber", p.BER)
	enc.AddFloat64Key("fer", p.FER)
	enc.AddInt64Key("elapsed_ms", p.Elapsed.Milliseconds())
}

// IsNil implements gojay.MarshalerJSONObject.
func (p *Point) IsNil() bool { return p == nil }

type points []Point

func (ps points) MarshalJSONArray(enc *gojay.Encoder) {
	for i := range ps {
		enc.AddObject(&ps[i])
	}
}

func (ps points) IsNil() bool { return len(ps) == 0 }

// Report collects the points of one sweep.
type Report struct {
	K       int
	N       int
	NFrames int
	Seed    int64
	Points  []Point
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (r *Report) MarshalJSONObject(enc *gojay.Encoder) {
	enc.AddIntKey("K", r.K)
	enc.AddIntKey("N", r.N)
	enc.AddIntKey("n_frames", r.NFrames)
	enc.AddInt64Key("seed", r.Seed)
	enc.AddArrayKey("points", points(r.Points))
}

// IsNil implements gojay.MarshalerJSONObject.
func (r *Report) IsNil() bool { return r == nil }

// WriteJSON streams the report to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := gojay.BorrowEncoder(w)
	defer enc.Release()
	return enc.EncodeObject(r)
}
