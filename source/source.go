// Package source provides information-bit generators built on the port
// framework.
package source

import (
	"math/rand"

	"github.com/paulcautereels/aff3ct/module"
)

// Random draws uniform information bits. One task, "generate", with a
// single output socket U_K (uint8, K*nFrames).
type Random struct {
	*module.Module

	k    int
	rng  *rand.Rand
	task *module.Task
}

// NewRandom builds a deterministic random source for the given seed.
func NewRandom(K, nFrames int, seed int64) (*Random, error) {
	s := &Random{
		Module: module.New("Source_random", nFrames),
		k:      K,
		rng:    rand.New(rand.NewSource(seed)),
	}
	t := s.CreateTask("generate")
	if _, err := t.CreateSocketOut("U_K", module.UInt8, K*s.NFrames()); err != nil {
		return nil, err
	}
	t.SetCodelet(func() error {
		uk, err := t.Socket("U_K")
		if err != nil {
			return err
		}
		s.Generate(uk.Data().([]uint8))
		return nil
	})
	s.task = t
	return s, nil
}

func (s *Random) K() int { return s.k }

// GenerateTask returns the "generate" task.
func (s *Random) GenerateTask() *module.Task { return s.task }

// Generate fills uK with uniform bits.
func (s *Random) Generate(uK []uint8) {
	for i := range uK {
		uK[i] = uint8(s.rng.Intn(2))
	}
}
