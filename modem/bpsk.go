// Package modem provides modulation stages built on the port framework.
package modem

import (
	"errors"
	"fmt"

	"github.com/paulcautereels/aff3ct/module"
)

// ErrInvalidSigma is returned when demodulating with a non-positive noise
// standard deviation.
var ErrInvalidSigma = errors.New("modem: sigma must be positive")

// BPSK maps bits to antipodal symbols and noisy symbols back to LLRs. Two
// tasks: "modulate" (X_N uint8 in, X_mod float32 out, symbol 1-2x) and
// "demodulate" (Y_N float32 in, LLR float32 out, LLR = 2y/sigma^2).
type BPSK struct {
	*module.Module

	n     int
	sigma float64

	modTask   *module.Task
	demodTask *module.Task
}

// NewBPSK builds the modem for frames of N symbols.
func NewBPSK(N, nFrames int) (*BPSK, error) {
	m := &BPSK{
		Module: module.New("Modem_BPSK", nFrames),
		n:      N,
		sigma:  1,
	}
	nElmts := N * m.NFrames()

	mt := m.CreateTask("modulate")
	if _, err := mt.CreateSocketIn("X_N", module.UInt8, nElmts); err != nil {
		return nil, err
	}
	if _, err := mt.CreateSocketOut("X_mod", module.Float32, nElmts); err != nil {
		return nil, err
	}
	mt.SetCodelet(func() error {
		xn, err := mt.Socket("X_N")
		if err != nil {
			return err
		}
		xm, err := mt.Socket("X_mod")
		if err != nil {
			return err
		}
		m.Modulate(xn.Data().([]uint8), xm.Data().([]float32))
		return nil
	})
	m.modTask = mt

	dt := m.CreateTask("demodulate")
	if _, err := dt.CreateSocketIn("Y_N", module.Float32, nElmts); err != nil {
		return nil, err
	}
	if _, err := dt.CreateSocketOut("LLR", module.Float32, nElmts); err != nil {
		return nil, err
	}
	dt.SetCodelet(func() error {
		yn, err := dt.Socket("Y_N")
		if err != nil {
			return err
		}
		llr, err := dt.Socket("LLR")
		if err != nil {
			return err
		}
		return m.Demodulate(yn.Data().([]float32), llr.Data().([]float32))
	})
	m.demodTask = dt
	return m, nil
}

func (m *BPSK) N() int { return m.n }

// SetSigma configures the noise standard deviation used by Demodulate.
func (m *BPSK) SetSigma(sigma float64) error {
	if sigma <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	m.sigma = sigma
	return nil
}

// ModulateTask returns the "modulate" task.
func (m *BPSK) ModulateTask() *module.Task { return m.modTask }

// DemodulateTask returns the "demodulate" task.
func (m *BPSK) DemodulateTask() *module.Task { return m.demodTask }

// Modulate maps bit x to symbol 1-2x.
func (m *BPSK) Modulate(xN []uint8, xMod []float32) {
	for i, b := range xN {
		xMod[i] = 1 - 2*float32(b&1)
	}
}

// Demodulate converts noisy symbols to LLRs under the configured sigma.
// Positive LLR favors bit 0.
func (m *BPSK) Demodulate(yN, llr []float32) error {
	if m.sigma <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, m.sigma)
	}
	scale := float32(2 / (m.sigma * m.sigma))
	for i, y := range yN {
		llr[i] = scale * y
	}
	return nil
}
