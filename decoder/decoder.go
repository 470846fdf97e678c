// Package decoder provides the frame-batch contract shared by every decoder
// stage: a caller hands over an arbitrary number of logical frames while the
// underlying algorithm only knows how to process exactly one SIMD wave of
// frames per call. The batch loop handles staging copies, the partial last
// wave, the information-bits vs full-codeword output conventions and the
// load/decode/store phase timing.
package decoder

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulcautereels/aff3ct/module"
)

var (
	// ErrInvalidArgument is returned at construction for non-positive K, N,
	// frame counts or SIMD widths, or K > N.
	ErrInvalidArgument = errors.New("decoder: invalid argument")

	// ErrLength is returned when a decode buffer has the wrong length.
	ErrLength = errors.New("decoder: buffer length mismatch")

	// ErrShape is returned when the output buffer matches neither the
	// information-length nor the codeword-length convention.
	ErrShape = errors.New("decoder: output matches neither K nor N convention")
)

// WaveDecoder is the single-wave primitive a concrete decoder implements.
// The wave holds up to simdInterFrameLevel frames laid out frame after
// frame; coded selects the store convention: false emits K information bits
// per frame, true the full N-bit re-encoded codeword.
type WaveDecoder interface {
	LoadWave(yN []float32)
	DecodeWave()
	StoreWave(v []uint8, coded bool)
}

// FastStorer is an optional alternative store in a decoder-specific format.
// Decoders that do not implement it fall back to StoreWave.
type FastStorer interface {
	StoreWaveFast(v []uint8, coded bool)
}

// Unpacker is the optional conversion pass bringing a fast-stored result to
// the canonical bit format. The default is the identity.
type Unpacker interface {
	UnpackWave(v []uint8)
}

// Options selects the phases HardDecodeOpt runs.
type Options struct {
	Load      bool // copy the input into the decoder before decoding
	Store     bool // copy the result out after decoding
	StoreFast bool // use the decoder-specific fast store
	Unpack    bool // convert a fast-stored result to canonical bits
}

// DefaultOptions loads and stores, with the canonical store path.
func DefaultOptions() Options { return Options{Load: true, Store: true} }

// SIHO is a soft-input hard-output decoder stage. It is a framework module
// with one task, "decode", whose sockets are Y_N (in, float32, N*nFrames)
// and V_K (out, uint8, K*nFrames).
type SIHO struct {
	*module.Module

	k    int
	n    int
	simd int

	nDecWaves       int
	nInterFrameRest int

	wd WaveDecoder
	yW [][]float32 // per-wave input staging, simd*N each
	vW [][]uint8   // per-wave output staging, simd*N each

	dLoad   time.Duration
	dDecode time.Duration
	dStore  time.Duration

	task *module.Task
}

// NewSIHO wraps a single-wave decode primitive into a batched decoder stage.
func NewSIHO(name string, K, N, nFrames, simdInterFrameLevel int, wd WaveDecoder) (*SIHO, error) {
	if K <= 0 || N <= 0 {
		return nil, fmt.Errorf("%w: K=%d, N=%d, both must be positive", ErrInvalidArgument, K, N)
	}
	if K > N {
		return nil, fmt.Errorf("%w: K=%d exceeds N=%d", ErrInvalidArgument, K, N)
	}
	if nFrames <= 0 {
		return nil, fmt.Errorf("%w: nFrames=%d must be positive", ErrInvalidArgument, nFrames)
	}
	if simdInterFrameLevel <= 0 {
		return nil, fmt.Errorf("%w: simdInterFrameLevel=%d must be positive", ErrInvalidArgument, simdInterFrameLevel)
	}

	d := &SIHO{
		Module:          module.New(name, nFrames),
		k:               K,
		n:               N,
		simd:            simdInterFrameLevel,
		nDecWaves:       (nFrames + simdInterFrameLevel - 1) / simdInterFrameLevel,
		nInterFrameRest: nFrames % simdInterFrameLevel,
		wd:              wd,
	}
	d.yW = make([][]float32, d.nDecWaves)
	d.vW = make([][]uint8, d.nDecWaves)
	for w := range d.yW {
		d.yW[w] = make([]float32, simdInterFrameLevel*N)
		d.vW[w] = make([]uint8, simdInterFrameLevel*N)
	}

	t := d.CreateTask("decode")
	if _, err := t.CreateSocketIn("Y_N", module.Float32, N*nFrames); err != nil {
		return nil, err
	}
	if _, err := t.CreateSocketOut("V_K", module.UInt8, K*nFrames); err != nil {
		return nil, err
	}
	t.RegisterPhase("load")
	t.RegisterPhase("decode")
	t.RegisterPhase("store")
	t.SetCodelet(func() error {
		y, err := t.Socket("Y_N")
		if err != nil {
			return err
		}
		v, err := t.Socket("V_K")
		if err != nil {
			return err
		}
		return d.HardDecode(y.Data().([]float32), v.Data().([]uint8))
	})
	d.task = t
	return d, nil
}

func (d *SIHO) K() int                   { return d.k }
func (d *SIHO) N() int                   { return d.n }
func (d *SIHO) SIMDInterFrameLevel() int { return d.simd }

// DecodeTask returns the "decode" task.
func (d *SIHO) DecodeTask() *module.Task { return d.task }

// HardDecode decodes nFrames frames with the default options.
func (d *SIHO) HardDecode(yN []float32, v []uint8) error {
	return d.HardDecodeOpt(yN, v, DefaultOptions())
}

// HardDecodeOpt decodes nFrames frames of N LLRs each from yN. The output v
// receives either K information bits per frame (len(v) == K*nFrames) or the
// full re-encoded codeword (len(v) == N*nFrames); any other length fails.
// The load/decode/store durations reset at every call and accumulate across
// the call's waves.
func (d *SIHO) HardDecodeOpt(yN []float32, v []uint8, o Options) error {
	nFrames := d.NFrames()
	if len(yN) != d.n*nFrames {
		return fmt.Errorf("%w: len(Y_N)=%d, want N*nFrames=%d", ErrLength, len(yN), d.n*nFrames)
	}
	if len(v) > d.n*nFrames {
		return fmt.Errorf("%w: len(V)=%d exceeds N*nFrames=%d", ErrLength, len(v), d.n*nFrames)
	}

	d.dLoad, d.dDecode, d.dStore = 0, 0, 0

	coded := false
	if o.Store {
		switch len(v) {
		case d.k * nFrames:
			coded = false
		case d.n * nFrames:
			coded = true
		default:
			return fmt.Errorf("%w: len(V)=%d, want K*nFrames=%d or N*nFrames=%d",
				ErrShape, len(v), d.k*nFrames, d.n*nFrames)
		}
	}

	if d.nDecWaves == 1 && d.nInterFrameRest == 0 {
		// Single full wave: decode straight into the caller's buffers.
		d.decodeWave(yN, v, coded, o)
	} else {
		perFrameOut := d.k
		if coded {
			perFrameOut = d.n
		}
		for w := 0; w < d.nDecWaves; w++ {
			framesInWave := d.simd
			if w == d.nDecWaves-1 && d.nInterFrameRest != 0 {
				framesInWave = d.nInterFrameRest
			}

			tLoad := time.Now()
			if o.Load {
				off := w * d.simd * d.n
				copy(d.yW[w][:framesInWave*d.n], yN[off:off+framesInWave*d.n])
			}
			d.dLoad += time.Since(tLoad)

			d.decodeWave(d.yW[w], d.vW[w], coded, o)

			tStore := time.Now()
			if o.Store {
				off := w * d.simd * perFrameOut
				copy(v[off:off+framesInWave*perFrameOut], d.vW[w][:framesInWave*perFrameOut])
			}
			d.dStore += time.Since(tStore)
		}
	}

	d.task.UpdatePhase("load", d.dLoad)
	d.task.UpdatePhase("decode", d.dDecode)
	d.task.UpdatePhase("store", d.dStore)
	return nil
}

func (d *SIHO) decodeWave(yN []float32, v []uint8, coded bool, o Options) {
	tLoad := time.Now()
	if o.Load {
		d.wd.LoadWave(yN)
	}
	d.dLoad += time.Since(tLoad)

	tDecode := time.Now()
	d.wd.DecodeWave()
	d.dDecode += time.Since(tDecode)

	tStore := time.Now()
	if o.Store {
		if o.StoreFast {
			if fs, ok := d.wd.(FastStorer); ok {
				fs.StoreWaveFast(v, coded)
			} else {
				d.wd.StoreWave(v, coded)
			}
			if o.Unpack {
				if up, ok := d.wd.(Unpacker); ok {
					up.UnpackWave(v)
				}
			}
		} else {
			d.wd.StoreWave(v, coded)
		}
	}
	d.dStore += time.Since(tStore)
}

// LoadDuration returns the load time accumulated by the last HardDecode call.
func (d *SIHO) LoadDuration() time.Duration { return d.dLoad }

// DecodeDuration returns the decode time accumulated by the last HardDecode call.
func (d *SIHO) DecodeDuration() time.Duration { return d.dDecode }

// StoreDuration returns the store time accumulated by the last HardDecode call.
func (d *SIHO) StoreDuration() time.Duration { return d.dStore }
