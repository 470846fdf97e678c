// Package channel provides noise-adding stages built on the port framework.
package channel

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/paulcautereels/aff3ct/module"
)

// ErrInvalidSigma is returned when adding noise with a non-positive
// standard deviation.
var ErrInvalidSigma = errors.New("channel: sigma must be positive")

// AWGN adds white Gaussian noise to modulated symbols. One task,
// "add_noise", with sockets X_mod (float32 in) and Y_N (float32 out).
type AWGN struct {
	*module.Module

	n     int
	sigma float64
	rng   *rand.Rand
	task  *module.Task
}

// NewAWGN builds a deterministic AWGN channel for the given seed.
func NewAWGN(N, nFrames int, seed int64) (*AWGN, error) {
	c := &AWGN{
		Module: module.New("Channel_AWGN", nFrames),
		n:      N,
		sigma:  1,
		rng:    rand.New(rand.NewSource(seed)),
	}
	nElmts := N * c.NFrames()
	t := c.CreateTask("add_noise")
	if _, err := t.CreateSocketIn("X_mod", module.Float32, nElmts); err != nil {
		return nil, err
	}
	if _, err := t.CreateSocketOut("Y_N", module.Float32, nElmts); err != nil {
		return nil, err
	}
	t.SetCodelet(func() error {
		xm, err := t.Socket("X_mod")
		if err != nil {
			return err
		}
		yn, err := t.Socket("Y_N")
		if err != nil {
			return err
		}
		return c.AddNoise(xm.Data().([]float32), yn.Data().([]float32))
	})
	c.task = t
	return c, nil
}

func (c *AWGN) N() int { return c.n }

// SetSigma configures the noise standard deviation.
func (c *AWGN) SetSigma(sigma float64) error {
	if sigma <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	c.sigma = sigma
	return nil
}

// AddNoiseTask returns the "add_noise" task.
func (c *AWGN) AddNoiseTask() *module.Task { return c.task }

// AddNoise writes yN = xMod + n, n ~ N(0, sigma^2).
func (c *AWGN) AddNoise(xMod, yN []float32) error {
	if c.sigma <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, c.sigma)
	}
	for i, x := range xMod {
		yN[i] = x + float32(c.rng.NormFloat64()*c.sigma)
	}
	return nil
}
