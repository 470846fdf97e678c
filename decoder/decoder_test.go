package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paulcautereels/aff3ct/module"
)

// thresholdDecoder decides each bit from the sign of its LLR, one wave at a
// time. The codeword convention re-emits all N decisions, the information
// convention the first K of each frame.
type thresholdDecoder struct {
	k, n, simd int
	y          []float32
	bits       []uint8

	fastCalls   int
	unpackCalls int
}

func newThresholdDecoder(k, n, simd int) *thresholdDecoder {
	return &thresholdDecoder{
		k: k, n: n, simd: simd,
		y:    make([]float32, simd*n),
		bits: make([]uint8, simd*n),
	}
}

func (d *thresholdDecoder) LoadWave(yN []float32) { copy(d.y, yN) }

func (d *thresholdDecoder) DecodeWave() {
	for i, l := range d.y {
		if l < 0 {
			d.bits[i] = 1
		} else {
			d.bits[i] = 0
		}
	}
}

func (d *thresholdDecoder) StoreWave(v []uint8, coded bool) {
	for f := 0; f < d.simd; f++ {
		if coded {
			copy(v[f*d.n:(f+1)*d.n], d.bits[f*d.n:(f+1)*d.n])
		} else {
			copy(v[f*d.k:(f+1)*d.k], d.bits[f*d.n:f*d.n+d.k])
		}
	}
}

func (d *thresholdDecoder) StoreWaveFast(v []uint8, coded bool) {
	d.fastCalls++
	d.StoreWave(v, coded)
}

func (d *thresholdDecoder) UnpackWave(v []uint8) { d.unpackCalls++ }

func newTestSIHO(t *testing.T, k, n, nFrames, simd int) (*SIHO, *thresholdDecoder) {
	t.Helper()
	wd := newThresholdDecoder(k, n, simd)
	d, err := NewSIHO("Decoder_threshold", k, n, nFrames, simd, wd)
	require.NoError(t, err)
	return d, wd
}

func TestNewSIHOValidation(t *testing.T) {
	wd := newThresholdDecoder(2, 4, 1)
	for _, tc := range []struct{ k, n, nFrames, simd int }{
		{0, 4, 1, 1},
		{2, 0, 1, 1},
		{5, 4, 1, 1},
		{2, 4, 0, 1},
		{2, 4, 1, 0},
	} {
		_, err := NewSIHO("Decoder_threshold", tc.k, tc.n, tc.nFrames, tc.simd, wd)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestHardDecodeSingleWave(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 1, 1)

	v := make([]uint8, 2)
	require.NoError(t, d.HardDecode([]float32{-1, 2, -3, 4}, v))
	require.Equal(t, []uint8{1, 0}, v)
}

func TestHardDecodeCodedConvention(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 1, 1)

	v := make([]uint8, 4)
	require.NoError(t, d.HardDecode([]float32{-1, 2, -3, 4}, v))
	require.Equal(t, []uint8{1, 0, 1, 0}, v)
}

func TestHardDecodeLengthAndShapeErrors(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 1, 1)

	err := d.HardDecode(make([]float32, 3), make([]uint8, 2))
	require.ErrorIs(t, err, ErrLength)

	err = d.HardDecode(make([]float32, 4), make([]uint8, 5))
	require.ErrorIs(t, err, ErrLength)

	err = d.HardDecode(make([]float32, 4), make([]uint8, 3))
	require.ErrorIs(t, err, ErrShape)
}

func TestHardDecodeBatchMatchesFrameByFrame(t *testing.T) {
	const k, n, nFrames, simd = 3, 6, 5, 2

	yN := make([]float32, n*nFrames)
	for i := range yN {
		if i%3 == 0 {
			yN[i] = -float32(i + 1)
		} else {
			yN[i] = float32(i + 1)
		}
	}

	batched, _ := newTestSIHO(t, k, n, nFrames, simd)
	got := make([]uint8, k*nFrames)
	require.NoError(t, batched.HardDecode(yN, got))

	want := make([]uint8, k*nFrames)
	for f := 0; f < nFrames; f++ {
		single, _ := newTestSIHO(t, k, n, 1, 1)
		require.NoError(t, single.HardDecode(yN[f*n:(f+1)*n], want[f*k:(f+1)*k]))
	}
	require.Equal(t, want, got)
}

func TestHardDecodeBatchCodedMatchesFrameByFrame(t *testing.T) {
	const k, n, nFrames, simd = 3, 6, 5, 2

	yN := make([]float32, n*nFrames)
	for i := range yN {
		yN[i] = float32(2*(i%2) - 1)
	}

	batched, _ := newTestSIHO(t, k, n, nFrames, simd)
	got := make([]uint8, n*nFrames)
	require.NoError(t, batched.HardDecode(yN, got))

	want := make([]uint8, n*nFrames)
	for f := 0; f < nFrames; f++ {
		single, _ := newTestSIHO(t, k, n, 1, 1)
		require.NoError(t, single.HardDecode(yN[f*n:(f+1)*n], want[f*n:(f+1)*n]))
	}
	require.Equal(t, want, got)
}

func TestHardDecodeOptHooks(t *testing.T) {
	d, wd := newTestSIHO(t, 2, 4, 1, 1)
	y := []float32{-1, 2, -3, 4}
	v := make([]uint8, 2)

	o := DefaultOptions()
	o.StoreFast = true
	require.NoError(t, d.HardDecodeOpt(y, v, o))
	require.Equal(t, 1, wd.fastCalls)
	require.Equal(t, 0, wd.unpackCalls)
	require.Equal(t, []uint8{1, 0}, v)

	o.Unpack = true
	require.NoError(t, d.HardDecodeOpt(y, v, o))
	require.Equal(t, 2, wd.fastCalls)
	require.Equal(t, 1, wd.unpackCalls)
}

func TestHardDecodeOptSkipsStore(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 1, 1)
	v := []uint8{9, 9}

	require.NoError(t, d.HardDecodeOpt([]float32{-1, 2, -3, 4}, v, Options{Load: true}))
	require.Equal(t, []uint8{9, 9}, v)
}

func TestDecodePhasesAndDurations(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 3, 2)

	yN := make([]float32, 4*3)
	v := make([]uint8, 2*3)
	require.NoError(t, d.HardDecode(yN, v))

	task := d.DecodeTask()
	require.Equal(t, []string{"load", "decode", "store"}, task.Phases())
	for _, key := range task.Phases() {
		p, err := task.PhaseStats(key)
		require.NoError(t, err)
		require.Equal(t, uint64(1), p.NCalls)
	}
	require.GreaterOrEqual(t, d.LoadDuration(), time.Duration(0))
	require.GreaterOrEqual(t, d.DecodeDuration(), time.Duration(0))
	require.GreaterOrEqual(t, d.StoreDuration(), time.Duration(0))
}

func TestDecodeThroughTask(t *testing.T) {
	d, _ := newTestSIHO(t, 2, 4, 1, 1)

	task := d.DecodeTask()
	y, err := task.Socket("Y_N")
	require.NoError(t, err)
	require.NoError(t, y.BindSlice([]float32{-1, 2, -3, 4}))

	require.NoError(t, task.Exec())
	v, err := task.Socket("V_K")
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 0}, v.Data().([]uint8))
	require.Equal(t, uint64(1), task.NCalls())

	require.Equal(t, 2, d.K())
	require.Equal(t, 4, d.N())
	require.Equal(t, 1, d.SIMDInterFrameLevel())
	require.Equal(t, module.UInt8, v.Datatype())
}
