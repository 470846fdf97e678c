package polar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func arikanCode(t *testing.T, N int) *Code {
	t.Helper()
	c, err := NewMonoKernelCode(N, KernelArikan)
	require.NoError(t, err)
	return c
}

func TestEncodeSizeTwo(t *testing.T) {
	frozen := []bool{true, false}
	e, err := NewEncoder(1, 2, arikanCode(t, 2), frozen, 1)
	require.NoError(t, err)

	x := make([]uint8, 2)
	require.NoError(t, e.Encode([]uint8{1}, x))
	require.Equal(t, []uint8{1, 1}, x)

	require.NoError(t, e.Encode([]uint8{0}, x))
	require.Equal(t, []uint8{0, 0}, x)
}

func TestEncodeSizeEight(t *testing.T) {
	// frozen lanes 0, 1, 2, 4; info bits land on lanes 3, 5, 6, 7
	frozen := []bool{true, true, true, false, true, false, false, false}
	e, err := NewEncoder(4, 8, arikanCode(t, 8), frozen, 1)
	require.NoError(t, err)

	x := make([]uint8, 8)
	require.NoError(t, e.Encode([]uint8{1, 0, 1, 1}, x))
	require.Equal(t, []uint8{1, 0, 1, 0, 0, 1, 0, 1}, x)
}

func TestEncodeLengthErrors(t *testing.T) {
	frozen := []bool{true, true, false, false}
	e, err := NewEncoder(2, 4, arikanCode(t, 4), frozen, 1)
	require.NoError(t, err)

	require.ErrorIs(t, e.Encode(make([]uint8, 3), make([]uint8, 4)), ErrLength)
	require.ErrorIs(t, e.Encode(make([]uint8, 2), make([]uint8, 5)), ErrLength)
}

func TestEncodeValidation(t *testing.T) {
	code := arikanCode(t, 4)

	_, err := NewEncoder(0, 4, code, make([]bool, 4), 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewEncoder(5, 4, code, make([]bool, 4), 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewEncoder(2, 4, code, make([]bool, 3), 1)
	require.ErrorIs(t, err, ErrLength)

	// 4 information positions in the mask, K says 2
	_, err = NewEncoder(2, 4, code, make([]bool, 4), 1)
	require.ErrorIs(t, err, ErrFrozenBitsCount)

	_, err = NewEncoder(2, 8, arikanCode(t, 4), []bool{true, true, false, false, true, true, true, true}, 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEncodeMultiFrame(t *testing.T) {
	frozen := []bool{true, false}
	e, err := NewEncoder(1, 2, arikanCode(t, 2), frozen, 3)
	require.NoError(t, err)

	x := make([]uint8, 6)
	require.NoError(t, e.Encode([]uint8{1, 0, 1}, x))
	require.Equal(t, []uint8{1, 1, 0, 0, 1, 1}, x)
}

func TestEncodeThroughTask(t *testing.T) {
	frozen := []bool{true, true, true, false, true, false, false, false}
	e, err := NewEncoder(4, 8, arikanCode(t, 8), frozen, 1)
	require.NoError(t, err)

	task := e.EncodeTask()
	uk, err := task.Socket("U_K")
	require.NoError(t, err)
	require.NoError(t, uk.BindSlice([]uint8{1, 0, 1, 1}))

	require.NoError(t, task.Exec())
	xn, err := task.Socket("X_N")
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 0, 1, 0, 0, 1, 0, 1}, xn.Data().([]uint8))
}
