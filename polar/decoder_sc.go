package polar

import (
	"github.com/paulcautereels/aff3ct/decoder"
	"github.com/paulcautereels/aff3ct/tree"
)

// scContents is the per-node payload of the decode tree: the propagated
// LLRs and re-encoded partial sums of the node's subtree, the node's stage
// (distance from the leaves, root highest) and, for leaves, the frozen flag.
type scContents struct {
	l        []float32
	s        []uint8
	stage    int
	isFrozen bool
}

// DecoderSCNaive is the generalized multi-kernel successive-cancellation
// decoder. It decodes one frame per wave by a single depth-first pass over
// the kernel factorization tree: likelihood combination on the way down,
// hard decisions at the leaves, generator re-encoding on the way up. Plain
// SC: no list, no backtracking, so one wrong early decision propagates to
// the rest of the block.
type DecoderSCNaive struct {
	*decoder.SIHO

	code    *Code
	frozen  []bool
	t       *tree.Tree[scContents]
	ke      [][]uint8 // transposed kernels, flattened
	lambdas []combineFunc

	// scratch vectors sized to the biggest kernel
	llrs []float32
	bits []uint8
	u    []uint8
	idx  []int
}

// NewDecoderSCNaive builds a decoder for K information bits in codewords of
// size N under the given mono-kernel code description and frozen-bit mask.
// Construction fails fast and retains no partial state; in particular the
// kernel shape is resolved before any tree node is allocated.
func NewDecoderSCNaive(K, N int, code *Code, frozenBits []bool, nFrames int) (*DecoderSCNaive, error) {
	d := &DecoderSCNaive{code: code}

	base, err := decoder.NewSIHO("Decoder_polar_MK_SC_naive", K, N, nFrames, 1, d)
	if err != nil {
		return nil, err
	}
	if err := validateMonoKernel(K, N, code, frozenBits); err != nil {
		return nil, err
	}
	lambdas, err := combineFuncs(code.kernels[0])
	if err != nil {
		return nil, err
	}

	kernSize := len(code.kernels[0])
	d.SIHO = base
	d.lambdas = lambdas
	d.frozen = append([]bool(nil), frozenBits...)
	d.ke = make([][]uint8, len(code.kernels))
	for ki, k := range code.kernels {
		d.ke[ki] = transposeKernel(k)
	}
	biggest := code.BiggestKernelSize()
	d.llrs = make([]float32, kernSize)
	d.bits = make([]uint8, kernSize-1)
	d.u = make([]uint8, biggest)
	d.idx = make([]int, biggest)

	d.t = tree.New[scContents](len(code.stages)+1, kernSize)
	d.allocateContents(d.t.Root(), N)
	d.initFrozenBits(d.t.Root())
	return d, nil
}

// allocateContents sizes each node's LLR and partial-sum vectors to its
// subtree's leaf count and assigns stages top-down.
func (d *DecoderSCNaive) allocateContents(id tree.NodeID, vectorSize int) {
	c := d.t.Contents(id)
	if d.t.IsRoot(id) {
		c.stage = len(d.code.stages) - 1
	} else {
		c.stage = d.t.Contents(d.t.Parent(id)).stage - 1
	}
	c.l = make([]float32, vectorSize)
	c.s = make([]uint8, vectorSize)
	for _, ch := range d.t.Children(id) {
		d.allocateContents(ch, vectorSize/d.t.Arity())
	}
}

func (d *DecoderSCNaive) initFrozenBits(id tree.NodeID) {
	if !d.t.IsLeaf(id) {
		for _, ch := range d.t.Children(id) {
			d.initFrozenBits(ch)
		}
		return
	}
	d.t.Contents(id).isFrozen = d.frozen[d.t.LaneID(id)]
}

// NotifyFrozenBitsUpdate applies an updated mask to the existing tree
// without reallocating it; subsequent decodes use the new mask.
func (d *DecoderSCNaive) NotifyFrozenBitsUpdate(frozenBits []bool) error {
	if len(frozenBits) != d.N() {
		return ErrLength
	}
	info := 0
	for _, f := range frozenBits {
		if !f {
			info++
		}
	}
	if info != d.K() {
		return ErrFrozenBitsCount
	}
	copy(d.frozen, frozenBits)
	d.initFrozenBits(d.t.Root())
	return nil
}

// FrozenBits returns the active mask.
func (d *DecoderSCNaive) FrozenBits() []bool { return d.frozen }

// LoadWave copies the wave's LLRs into the root of the tree.
func (d *DecoderSCNaive) LoadWave(yN []float32) {
	copy(d.t.Contents(d.t.Root()).l, yN[:d.N()])
}

// DecodeWave runs one recursive SC pass over the tree.
func (d *DecoderSCNaive) DecodeWave() {
	d.recursiveDecode(d.t.Root())
}

func (d *DecoderSCNaive) recursiveDecode(id tree.NodeID) {
	if d.t.IsLeaf(id) {
		c := d.t.Contents(id)
		if !c.isFrozen && c.l[0] < 0 { // h(): negative LLR decides 1
			c.s[0] = 1
		} else {
			c.s[0] = 0
		}
		return
	}

	c := d.t.Contents(id)
	children := d.t.Children(id)
	kernSize := len(children)
	size := len(c.l)
	subPart := size / kernSize

	for child := 0; child < kernSize; child++ {
		cc := d.t.Contents(children[child])
		for i := 0; i < subPart; i++ {
			for l := 0; l < kernSize; l++ {
				d.llrs[l] = c.l[l*subPart+i]
			}
			for b := 0; b < child; b++ {
				d.bits[b] = d.t.Contents(children[b]).s[i]
			}
			cc.l[i] = d.lambdas[child](d.llrs, d.bits)
		}
		d.recursiveDecode(children[child])
	}

	// re-encode the partial sums, one kernel repetition at a time
	ke := d.ke[d.code.stages[c.stage]]
	nKernels := size / kernSize
	for k := 0; k < nKernels; k++ {
		for i := 0; i < kernSize; i++ {
			d.idx[i] = nKernels*i + k
			d.u[i] = d.t.Contents(children[d.idx[i]/subPart]).s[d.idx[i]%subPart]
		}
		encodeKernel(d.u, d.idx, ke, c.s, kernSize)
	}
}

// StoreWave emits the decisions: with coded set, the root's partial sums
// (the re-encoded codeword); otherwise the non-frozen leaves' bits in
// lane-id order.
func (d *DecoderSCNaive) StoreWave(v []uint8, coded bool) {
	if coded {
		copy(v[:d.N()], d.t.Contents(d.t.Root()).s)
		return
	}
	k := 0
	for _, leaf := range d.t.Leaves() {
		if !d.frozen[d.t.LaneID(leaf)] {
			v[k] = d.t.Contents(leaf).s[0]
			k++
		}
	}
}
