// Package monitor provides error-rate accounting stages built on the port
// framework.
package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/paulcautereels/aff3ct/module"
)

// BER compares source bits against decoded bits and accumulates bit and
// frame error counts. One task, "check_errors", with input sockets U (the
// transmitted information bits) and V (the decoded ones), both uint8 of
// K*nFrames elements. Counters are optionally exported to prometheus.
type BER struct {
	*module.Module

	k int

	nFramesAnalyzed uint64
	nBitErrors      uint64
	nFrameErrors    uint64

	framesCtr   prometheus.Counter
	bitErrCtr   prometheus.Counter
	frameErrCtr prometheus.Counter

	task *module.Task
}

// NewBER builds a monitor for frames of K information bits. When reg is
// non-nil the frames/bit-error/frame-error counters are registered on it.
func NewBER(K, nFrames int, reg prometheus.Registerer) (*BER, error) {
	m := &BER{
		Module: module.New("Monitor_BER", nFrames),
		k:      K,
		framesCtr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aff3ct", Subsystem: "monitor", Name: "frames_total",
			Help: "Frames analyzed by the BER monitor.",
		}),
		bitErrCtr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aff3ct", Subsystem: "monitor", Name: "bit_errors_total",
			Help: "Information bit errors counted by the BER monitor.",
		}),
		frameErrCtr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aff3ct", Subsystem: "monitor", Name: "frame_errors_total",
			Help: "Frames with at least one bit error.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.framesCtr, m.bitErrCtr, m.frameErrCtr} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	nElmts := K * m.NFrames()
	t := m.CreateTask("check_errors")
	if _, err := t.CreateSocketIn("U", module.UInt8, nElmts); err != nil {
		return nil, err
	}
	if _, err := t.CreateSocketIn("V", module.UInt8, nElmts); err != nil {
		return nil, err
	}
	t.SetCodelet(func() error {
		u, err := t.Socket("U")
		if err != nil {
			return err
		}
		v, err := t.Socket("V")
		if err != nil {
			return err
		}
		m.CheckErrors(u.Data().([]uint8), v.Data().([]uint8))
		return nil
	})
	m.task = t
	return m, nil
}

func (m *BER) K() int { return m.k }

// CheckTask returns the "check_errors" task.
func (m *BER) CheckTask() *module.Task { return m.task }

// CheckErrors compares nFrames frames of K bits each.
func (m *BER) CheckErrors(u, v []uint8) {
	nFra := len(u) / m.k
	for f := 0; f < nFra; f++ {
		frameErrs := 0
		for i := 0; i < m.k; i++ {
			if u[f*m.k+i]&1 != v[f*m.k+i]&1 {
				frameErrs++
			}
		}
		m.nFramesAnalyzed++
		m.framesCtr.Inc()
		if frameErrs > 0 {
			m.nBitErrors += uint64(frameErrs)
			m.nFrameErrors++
			m.bitErrCtr.Add(float64(frameErrs))
			m.frameErrCtr.Inc()
		}
	}
}

func (m *BER) FramesAnalyzed() uint64 { return m.nFramesAnalyzed }
func (m *BER) BitErrors() uint64      { return m.nBitErrors }
func (m *BER) FrameErrors() uint64    { return m.nFrameErrors }

// BER returns the bit error rate over the analyzed frames.
func (m *BER) BER() float64 {
	if m.nFramesAnalyzed == 0 {
		return 0
	}
	return float64(m.nBitErrors) / float64(m.nFramesAnalyzed*uint64(m.k))
}

// FER returns the frame error rate over the analyzed frames.
func (m *BER) FER() float64 {
	if m.nFramesAnalyzed == 0 {
		return 0
	}
	return float64(m.nFrameErrors) / float64(m.nFramesAnalyzed)
}

// Reset clears the accumulated counts. The prometheus counters keep their
// monotonic totals.
func (m *BER) Reset() {
	m.nFramesAnalyzed, m.nBitErrors, m.nFrameErrors = 0, 0, 0
}
