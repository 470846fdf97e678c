package polar

import (
	"fmt"
	"math"
)

// KernelArikan is the classical size-2 butterfly kernel.
var KernelArikan = [][]uint8{
	{1, 0},
	{1, 1},
}

// KernelTernary1 and KernelTernary2 are the two recognized size-3 kernels.
var KernelTernary1 = [][]uint8{
	{1, 1, 1},
	{1, 0, 1},
	{0, 1, 1},
}

var KernelTernary2 = [][]uint8{
	{1, 0, 0},
	{1, 1, 0},
	{1, 0, 1},
}

// combineFunc computes child k's propagated LLR from the parent's LLRs
// restricted to one kernel instance and the hard bits already decided for
// children 0..k-1.
type combineFunc func(llrs []float32, bits []uint8) float32

func sameKernel(a, b [][]uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func signbit32(x float32) bool {
	return math.Signbit(float64(x))
}

// signMin applies a sign to a magnitude: the min-sum check-node output.
func signMin(neg bool, min float32) float32 {
	if neg {
		return -min
	}
	return min
}

// cond flips an LLR according to an already-decided bit.
func cond(b uint8, l float32) float32 {
	if b == 0 {
		return l
	}
	return -l
}

// combineFuncs resolves the fixed combine-function set of a recognized
// kernel, one function per child position.
func combineFuncs(kernel [][]uint8) ([]combineFunc, error) {
	switch {
	case sameKernel(kernel, KernelArikan):
		return []combineFunc{
			// min-sum approximation of the log-domain check-node update
			func(l []float32, b []uint8) float32 {
				neg := signbit32(l[0]) != signbit32(l[1])
				m := min(abs32(l[0]), abs32(l[1]))
				return signMin(neg, m)
			},
			// bit-node update conditioned on the decided bit
			func(l []float32, b []uint8) float32 {
				return cond(b[0], l[0]) + l[1]
			},
		}, nil

	case sameKernel(kernel, KernelTernary1):
		return []combineFunc{
			func(l []float32, b []uint8) float32 {
				neg := signbit32(l[0]) != signbit32(l[1]) != signbit32(l[2])
				m := min(min(abs32(l[0]), abs32(l[1])), abs32(l[2]))
				return signMin(neg, m)
			},
			func(l []float32, b []uint8) float32 {
				neg := signbit32(l[1]) != signbit32(l[2])
				m := min(abs32(l[1]), abs32(l[2]))
				return cond(b[0], l[0]) + signMin(neg, m)
			},
			func(l []float32, b []uint8) float32 {
				return cond(b[0], l[1]) + cond(b[0]^b[1], l[2])
			},
		}, nil

	case sameKernel(kernel, KernelTernary2):
		return []combineFunc{
			func(l []float32, b []uint8) float32 {
				neg := signbit32(l[0]) != signbit32(l[1]) != signbit32(l[2])
				m := min(min(abs32(l[0]), abs32(l[1])), abs32(l[2]))
				return signMin(neg, m)
			},
			func(l []float32, b []uint8) float32 {
				hl0 := cond(b[0], l[0])
				neg := signbit32(hl0) != signbit32(l[2])
				m := min(abs32(hl0), abs32(l[2]))
				return signMin(neg, m) + l[1]
			},
			func(l []float32, b []uint8) float32 {
				return cond(b[0]^b[1], l[0]) + l[2]
			},
		}, nil
	}
	return nil, fmt.Errorf("%w: %dx%d matrix not in the recognized set",
		ErrUnsupportedKernel, len(kernel), len(kernel))
}
