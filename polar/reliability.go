package polar

import (
	"fmt"
	"sort"
)

// FrozenBitsBEC builds a frozen-bit mask for the Arikan kernel from the
// binary-erasure-channel Bhattacharyya recursion at design erasure
// probability eps. The K most reliable lanes carry information (ties break
// toward the lower lane id); the rest are frozen.
func FrozenBitsBEC(N, K int, eps float64) ([]bool, error) {
	if N < 2 || N&(N-1) != 0 {
		return nil, fmt.Errorf("%w: N=%d must be a power of 2", ErrInvalidArgument, N)
	}
	if K <= 0 || K > N {
		return nil, fmt.Errorf("%w: K=%d, N=%d", ErrInvalidArgument, K, N)
	}
	if eps <= 0 || eps >= 1 {
		return nil, fmt.Errorf("%w: eps=%v must be in (0,1)", ErrInvalidArgument, eps)
	}

	z := []float64{eps}
	for len(z) < N {
		nz := make([]float64, 0, 2*len(z))
		for _, v := range z {
			nz = append(nz, 2*v-v*v, v*v)
		}
		z = nz
	}

	lanes := make([]int, N)
	for i := range lanes {
		lanes[i] = i
	}
	sort.SliceStable(lanes, func(a, b int) bool { return z[lanes[a]] < z[lanes[b]] })

	mask := make([]bool, N)
	for i := range mask {
		mask[i] = true
	}
	for _, lane := range lanes[:K] {
		mask[lane] = false
	}
	return mask, nil
}

// FrozenBitsFromReliability builds a mask from a reliability order listing
// lane ids from most reliable to least. Entries outside [0, N) are skipped,
// so a universal sequence serves several codeword sizes.
func FrozenBitsFromReliability(order []int, N, K int) ([]bool, error) {
	if N < 2 {
		return nil, fmt.Errorf("%w: N=%d", ErrInvalidArgument, N)
	}
	if K <= 0 || K > N {
		return nil, fmt.Errorf("%w: K=%d, N=%d", ErrInvalidArgument, K, N)
	}
	mask := make([]bool, N)
	for i := range mask {
		mask[i] = true
	}
	picked := 0
	for _, lane := range order {
		if lane < 0 || lane >= N {
			continue
		}
		if mask[lane] {
			mask[lane] = false
			picked++
			if picked == K {
				return mask, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: order yields %d information lanes, K=%d", ErrFrozenBitsCount, picked, K)
}
