package polar

import (
	"fmt"

	"github.com/paulcautereels/aff3ct/module"
	"github.com/paulcautereels/aff3ct/tree"
)

// Encoder applies the generalized multi-kernel polar transform. It is a
// framework module with one task, "encode", whose sockets are U_K (in,
// uint8, K*nFrames) and X_N (out, uint8, N*nFrames). Information bits land
// on the non-frozen lanes; the codeword is produced by the same bottom-up
// generator re-encoding the SC decoder uses, over the same tree shape.
type Encoder struct {
	*module.Module

	k      int
	n      int
	code   *Code
	frozen []bool
	t      *tree.Tree[encContents]
	ke     [][]uint8

	u   []uint8
	idx []int

	task *module.Task
}

type encContents struct {
	s     []uint8
	stage int
}

// NewEncoder builds an encoder for K information bits in codewords of size
// N under the given mono-kernel code description and frozen-bit mask.
func NewEncoder(K, N int, code *Code, frozenBits []bool, nFrames int) (*Encoder, error) {
	if K <= 0 || N <= 0 || K > N {
		return nil, fmt.Errorf("%w: K=%d, N=%d", ErrInvalidArgument, K, N)
	}
	if err := validateMonoKernel(K, N, code, frozenBits); err != nil {
		return nil, err
	}
	kernSize := len(code.kernels[0])

	e := &Encoder{
		Module: module.New("Encoder_polar_MK", nFrames),
		k:      K,
		n:      N,
		code:   code,
		frozen: append([]bool(nil), frozenBits...),
	}
	e.ke = make([][]uint8, len(code.kernels))
	for ki, k := range code.kernels {
		e.ke[ki] = transposeKernel(k)
	}
	biggest := code.BiggestKernelSize()
	e.u = make([]uint8, biggest)
	e.idx = make([]int, biggest)

	e.t = tree.New[encContents](len(code.stages)+1, kernSize)
	e.allocateContents(e.t.Root(), N)

	nFra := e.NFrames()
	t := e.CreateTask("encode")
	if _, err := t.CreateSocketIn("U_K", module.UInt8, K*nFra); err != nil {
		return nil, err
	}
	if _, err := t.CreateSocketOut("X_N", module.UInt8, N*nFra); err != nil {
		return nil, err
	}
	t.SetCodelet(func() error {
		uk, err := t.Socket("U_K")
		if err != nil {
			return err
		}
		xn, err := t.Socket("X_N")
		if err != nil {
			return err
		}
		return e.Encode(uk.Data().([]uint8), xn.Data().([]uint8))
	})
	e.task = t
	return e, nil
}

func (e *Encoder) allocateContents(id tree.NodeID, vectorSize int) {
	c := e.t.Contents(id)
	if e.t.IsRoot(id) {
		c.stage = len(e.code.stages) - 1
	} else {
		c.stage = e.t.Contents(e.t.Parent(id)).stage - 1
	}
	c.s = make([]uint8, vectorSize)
	for _, ch := range e.t.Children(id) {
		e.allocateContents(ch, vectorSize/e.t.Arity())
	}
}

func (e *Encoder) K() int { return e.k }
func (e *Encoder) N() int { return e.n }

// EncodeTask returns the "encode" task.
func (e *Encoder) EncodeTask() *module.Task { return e.task }

// Encode maps nFrames frames of K information bits to their codewords.
func (e *Encoder) Encode(uK, xN []uint8) error {
	nFra := e.NFrames()
	if len(uK) != e.k*nFra {
		return fmt.Errorf("%w: len(U_K)=%d, want K*nFrames=%d", ErrLength, len(uK), e.k*nFra)
	}
	if len(xN) != e.n*nFra {
		return fmt.Errorf("%w: len(X_N)=%d, want N*nFrames=%d", ErrLength, len(xN), e.n*nFra)
	}
	for f := 0; f < nFra; f++ {
		e.encodeFrame(uK[f*e.k:(f+1)*e.k], xN[f*e.n:(f+1)*e.n])
	}
	return nil
}

func (e *Encoder) encodeFrame(uK, xN []uint8) {
	k := 0
	for _, leaf := range e.t.Leaves() {
		c := e.t.Contents(leaf)
		if e.frozen[e.t.LaneID(leaf)] {
			c.s[0] = 0
		} else {
			c.s[0] = uK[k] & 1
			k++
		}
	}
	e.recursiveEncode(e.t.Root())
	copy(xN, e.t.Contents(e.t.Root()).s)
}

func (e *Encoder) recursiveEncode(id tree.NodeID) {
	if e.t.IsLeaf(id) {
		return
	}
	children := e.t.Children(id)
	for _, ch := range children {
		e.recursiveEncode(ch)
	}

	c := e.t.Contents(id)
	kernSize := len(children)
	size := len(c.s)
	subPart := size / kernSize
	ke := e.ke[e.code.stages[c.stage]]
	nKernels := size / kernSize
	for k := 0; k < nKernels; k++ {
		for i := 0; i < kernSize; i++ {
			e.idx[i] = nKernels*i + k
			e.u[i] = e.t.Contents(children[e.idx[i]/subPart]).s[e.idx[i]%subPart]
		}
		encodeKernel(e.u, e.idx, ke, c.s, kernSize)
	}
}
