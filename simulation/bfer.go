// Package simulation runs Monte-Carlo bit and frame error rate estimations
// over a complete transmission chain. The stages are regular framework
// modules; the chain is wired once through socket bindings and then driven
// task by task.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/paulcautereels/aff3ct/channel"
	"github.com/paulcautereels/aff3ct/modem"
	"github.com/paulcautereels/aff3ct/module"
	"github.com/paulcautereels/aff3ct/monitor"
	"github.com/paulcautereels/aff3ct/polar"
	"github.com/paulcautereels/aff3ct/source"
)

// ErrInvalidParams is returned when a sweep is misconfigured.
var ErrInvalidParams = errors.New("simulation: invalid parameters")

// Params describes one BFER sweep: the code under test and the Eb/N0 range
// to walk, plus the stop criteria applied at every point.
type Params struct {
	K          int
	N          int
	Code       *polar.Code
	FrozenBits []bool
	NFrames    int // frames per chain execution

	EbN0Min  float64
	EbN0Max  float64
	EbN0Step float64

	MaxFrameErrors uint64 // stop a point after this many frame errors
	MaxFrames      uint64 // hard cap on analyzed frames per point

	Seed int64
}

// EbN0ToEsN0 converts an information-bit SNR to a symbol SNR for rate R.
func EbN0ToEsN0(ebn0, rate float64) float64 {
	return ebn0 + 10*math.Log10(rate)
}

// EsN0ToSigma converts a symbol SNR in dB to the AWGN standard deviation.
func EsN0ToSigma(esn0 float64) float64 {
	return math.Sqrt(1 / (2 * math.Pow(10, esn0/10)))
}

// BFER owns the source, encoder, modem, channel, decoder and monitor stages
// and the socket bindings between them.
type BFER struct {
	p         Params
	log       *zap.Logger
	regTarget prometheus.Registerer

	src *source.Random
	enc *polar.Encoder
	mdm *modem.BPSK
	chn *channel.AWGN
	dec *polar.DecoderSCNaive
	mnt *monitor.BER

	tasks []*module.Task
}

// Option adjusts a BFER simulation at construction.
type Option func(*BFER)

// WithLogger installs a logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option { return func(s *BFER) { s.log = l } }

// WithRegisterer exports the monitor counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *BFER) { s.regTarget = reg }
}

// NewBFER builds the chain and binds every input socket to the producing
// stage's output socket.
func NewBFER(p Params, opts ...Option) (*BFER, error) {
	if p.NFrames <= 0 {
		p.NFrames = 1
	}
	if p.EbN0Step <= 0 {
		return nil, fmt.Errorf("%w: EbN0Step=%v must be positive", ErrInvalidParams, p.EbN0Step)
	}
	if p.EbN0Max < p.EbN0Min {
		return nil, fmt.Errorf("%w: EbN0Max=%v below EbN0Min=%v", ErrInvalidParams, p.EbN0Max, p.EbN0Min)
	}
	if p.MaxFrameErrors == 0 {
		p.MaxFrameErrors = 100
	}
	if p.MaxFrames == 0 {
		p.MaxFrames = 10_000_000
	}

	s := &BFER{p: p, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}

	var err error
	if s.src, err = source.NewRandom(p.K, p.NFrames, p.Seed); err != nil {
		return nil, err
	}
	if s.enc, err = polar.NewEncoder(p.K, p.N, p.Code, p.FrozenBits, p.NFrames); err != nil {
		return nil, err
	}
	if s.mdm, err = modem.NewBPSK(p.N, p.NFrames); err != nil {
		return nil, err
	}
	if s.chn, err = channel.NewAWGN(p.N, p.NFrames, p.Seed+1); err != nil {
		return nil, err
	}
	if s.dec, err = polar.NewDecoderSCNaive(p.K, p.N, p.Code, p.FrozenBits, p.NFrames); err != nil {
		return nil, err
	}
	if s.mnt, err = monitor.NewBER(p.K, p.NFrames, s.regTarget); err != nil {
		return nil, err
	}

	if err := s.bind(); err != nil {
		return nil, err
	}
	return s, nil
}

// bind wires each consumer input to its producer output.
func (s *BFER) bind() error {
	type link struct {
		dst     *module.Task
		dstName string
		src     *module.Task
		srcName string
	}
	links := []link{
		{s.enc.EncodeTask(), "U_K", s.src.GenerateTask(), "U_K"},
		{s.mdm.ModulateTask(), "X_N", s.enc.EncodeTask(), "X_N"},
		{s.chn.AddNoiseTask(), "X_mod", s.mdm.ModulateTask(), "X_mod"},
		{s.mdm.DemodulateTask(), "Y_N", s.chn.AddNoiseTask(), "Y_N"},
		{s.dec.DecodeTask(), "Y_N", s.mdm.DemodulateTask(), "LLR"},
		{s.mnt.CheckTask(), "U", s.src.GenerateTask(), "U_K"},
		{s.mnt.CheckTask(), "V", s.dec.DecodeTask(), "V_K"},
	}
	for _, l := range links {
		in, err := l.dst.Socket(l.dstName)
		if err != nil {
			return err
		}
		out, err := l.src.Socket(l.srcName)
		if err != nil {
			return err
		}
		if err := in.Bind(out); err != nil {
			return err
		}
	}
	s.tasks = []*module.Task{
		s.src.GenerateTask(),
		s.enc.EncodeTask(),
		s.mdm.ModulateTask(),
		s.chn.AddNoiseTask(),
		s.mdm.DemodulateTask(),
		s.dec.DecodeTask(),
		s.mnt.CheckTask(),
	}
	return nil
}

// Monitor exposes the error counters, mostly for tests.
func (s *BFER) Monitor() *monitor.BER { return s.mnt }

// Run walks the Eb/N0 range and returns one report point per step. It stops
// early when ctx is canceled, returning the points completed so far along
// with the context's error.
func (s *BFER) Run(ctx context.Context) (*Report, error) {
	r := &Report{K: s.p.K, N: s.p.N, NFrames: s.p.NFrames, Seed: s.p.Seed}
	rate := float64(s.p.K) / float64(s.p.N)

	for ebn0 := s.p.EbN0Min; ebn0 <= s.p.EbN0Max+1e-9; ebn0 += s.p.EbN0Step {
		esn0 := EbN0ToEsN0(ebn0, rate)
		sigma := EsN0ToSigma(esn0)
		if err := s.mdm.SetSigma(sigma); err != nil {
			return r, err
		}
		if err := s.chn.SetSigma(sigma); err != nil {
			return r, err
		}
		s.mnt.Reset()

		start := time.Now()
		for s.mnt.FrameErrors() < s.p.MaxFrameErrors && s.mnt.FramesAnalyzed() < s.p.MaxFrames {
			if err := ctx.Err(); err != nil {
				return r, err
			}
			for _, t := range s.tasks {
				if err := t.Exec(); err != nil {
					return r, err
				}
			}
		}

		pt := Point{
			EbN0:           ebn0,
			EsN0:           esn0,
			Sigma:          sigma,
			FramesAnalyzed: s.mnt.FramesAnalyzed(),
			BitErrors:      s.mnt.BitErrors(),
			FrameErrors:    s.mnt.FrameErrors(),
			BER:            s.mnt.BER(),
			FER:            s.mnt.FER(),
			Elapsed:        time.Since(start),
		}
		r.Points = append(r.Points, pt)

		s.log.Info("bfer point",
			zap.Float64("ebn0", pt.EbN0),
			zap.Float64("sigma", pt.Sigma),
			zap.Uint64("frames", pt.FramesAnalyzed),
			zap.Float64("ber", pt.BER),
			zap.Float64("fer", pt.FER),
			zap.Duration("elapsed", pt.Elapsed))
	}
	return r, nil
}
