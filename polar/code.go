// Package polar implements generalized multi-kernel polar coding: the code
// description (kernel matrices and their per-stage assignment), the
// generalized kernel encoder and the naive successive-cancellation decoder
// operating over a recursive tree of combine nodes.
package polar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for out-of-range construction values.
	ErrInvalidArgument = errors.New("polar: invalid argument")

	// ErrBadKernel is returned for kernel matrices that are empty,
	// non-square or non-binary.
	ErrBadKernel = errors.New("polar: malformed kernel matrix")

	// ErrBadStageMap is returned when the stage assignment does not
	// factor the codeword size.
	ErrBadStageMap = errors.New("polar: stage map does not factor N")

	// ErrNotMonoKernel is returned by components that only support codes
	// built from a single kernel shape.
	ErrNotMonoKernel = errors.New("polar: code is not mono-kernel")

	// ErrUnsupportedKernel is returned when a kernel matrix is not one of
	// the recognized shapes.
	ErrUnsupportedKernel = errors.New("polar: unsupported kernel")

	// ErrLength is returned when a frozen-bit mask has the wrong length.
	ErrLength = errors.New("polar: length mismatch")

	// ErrFrozenBitsCount is returned when the number of non-frozen mask
	// entries differs from K.
	ErrFrozenBitsCount = errors.New("polar: frozen mask information count mismatch")
)

// Code describes a polar-style code: a set of kernel matrices and, per tree
// stage, which kernel is applied. Stage 0 is closest to the leaves. The
// code is consumed by encoders and decoders; it owns no buffers.
type Code struct {
	n       int
	kernels [][][]uint8
	stages  []int
}

// NewCode builds a code description for codeword size N. stages[s] names the
// kernel applied at stage s; the product of the assigned kernel sizes must
// equal N.
func NewCode(N int, kernels [][][]uint8, stages []int) (*Code, error) {
	if N < 2 {
		return nil, fmt.Errorf("%w: N=%d must be at least 2", ErrInvalidArgument, N)
	}
	if len(kernels) == 0 {
		return nil, fmt.Errorf("%w: no kernel matrices", ErrBadKernel)
	}
	for ki, k := range kernels {
		if len(k) == 0 {
			return nil, fmt.Errorf("%w: kernel %d is empty", ErrBadKernel, ki)
		}
		for _, row := range k {
			if len(row) != len(k) {
				return nil, fmt.Errorf("%w: kernel %d is not square", ErrBadKernel, ki)
			}
			for _, v := range row {
				if v > 1 {
					return nil, fmt.Errorf("%w: kernel %d has non-binary entries", ErrBadKernel, ki)
				}
			}
		}
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: empty stage map", ErrBadStageMap)
	}
	prod := 1
	for _, s := range stages {
		if s < 0 || s >= len(kernels) {
			return nil, fmt.Errorf("%w: stage references kernel %d of %d", ErrBadStageMap, s, len(kernels))
		}
		prod *= len(kernels[s])
	}
	if prod != N {
		return nil, fmt.Errorf("%w: kernel sizes multiply to %d, N=%d", ErrBadStageMap, prod, N)
	}
	return &Code{n: N, kernels: kernels, stages: stages}, nil
}

// NewMonoKernelCode builds a code that reuses one kernel at every stage.
// N must be an exact power of the kernel size.
func NewMonoKernelCode(N int, kernel [][]uint8) (*Code, error) {
	base := len(kernel)
	if base < 2 {
		return nil, fmt.Errorf("%w: kernel size %d must be at least 2", ErrBadKernel, base)
	}
	nStages := 0
	for rem := N; rem > 1; rem /= base {
		if rem%base != 0 {
			return nil, fmt.Errorf("%w: N=%d is not a power of %d", ErrBadStageMap, N, base)
		}
		nStages++
	}
	return NewCode(N, [][][]uint8{kernel}, make([]int, nStages))
}

// CodewordSize returns N.
func (c *Code) CodewordSize() int { return c.n }

// KernelMatrices returns the kernel set.
func (c *Code) KernelMatrices() [][][]uint8 { return c.kernels }

// Stages returns the per-stage kernel assignment, leaf-most first.
func (c *Code) Stages() []int { return c.stages }

// IsMonoKernel reports whether a single kernel shape is reused at every stage.
func (c *Code) IsMonoKernel() bool { return len(c.kernels) == 1 }

// BiggestKernelSize returns the largest kernel dimension in the set.
func (c *Code) BiggestKernelSize() int {
	max := 0
	for _, k := range c.kernels {
		if len(k) > max {
			max = len(k)
		}
	}
	return max
}

// validateMonoKernel runs the shared construction gates of the mono-kernel
// encoder/decoder pair, in order: mono-kernel code, kernel size, codeword
// size, mask length, information count.
func validateMonoKernel(K, N int, code *Code, frozenBits []bool) error {
	if !code.IsMonoKernel() {
		return fmt.Errorf("%w: %d kernel shapes", ErrNotMonoKernel, len(code.kernels))
	}
	if base := len(code.kernels[0]); base < 2 {
		return fmt.Errorf("%w: kernel size %d must be at least 2", ErrInvalidArgument, base)
	}
	if N != code.CodewordSize() {
		return fmt.Errorf("%w: N=%d, code says %d", ErrInvalidArgument, N, code.CodewordSize())
	}
	if len(frozenBits) != N {
		return fmt.Errorf("%w: frozen mask has %d entries, N=%d", ErrLength, len(frozenBits), N)
	}
	info := 0
	for _, f := range frozenBits {
		if !f {
			info++
		}
	}
	if info != K {
		return fmt.Errorf("%w: %d information positions, K=%d", ErrFrozenBitsCount, info, K)
	}
	return nil
}

// transposeKernel flattens a kernel with rows and columns swapped, the
// layout the generator re-encode step consumes.
func transposeKernel(k [][]uint8) []uint8 {
	size := len(k)
	out := make([]uint8, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			out[i*size+j] = k[j][i]
		}
	}
	return out
}

// encodeKernel applies one kernel repetition: x[idx[i]] receives the GF(2)
// dot product of u with kernel column i (ke is the transposed kernel).
func encodeKernel(u []uint8, idx []int, ke []uint8, x []uint8, size int) {
	for i := 0; i < size; i++ {
		stride := i * size
		var sum uint8
		for j := 0; j < size; j++ {
			sum += u[j] & ke[stride+j]
		}
		x[idx[i]] = sum & 1
	}
}
