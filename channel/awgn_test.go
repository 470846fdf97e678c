package channel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNoiseStatistics(t *testing.T) {
	const n = 10000
	c, err := NewAWGN(n, 1, 99)
	require.NoError(t, err)
	require.NoError(t, c.SetSigma(0.5))

	x := make([]float32, n)
	y := make([]float32, n)
	require.NoError(t, c.AddNoise(x, y))

	var sum, sumSq float64
	for _, v := range y {
		sum += float64(v)
		sumSq += float64(v) * float64(v)
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	require.InDelta(t, 0, mean, 0.05)
	require.InDelta(t, 0.25, variance, 0.05)
	require.False(t, math.IsNaN(variance))
}

func TestAddNoiseDeterministicPerSeed(t *testing.T) {
	a, err := NewAWGN(8, 1, 5)
	require.NoError(t, err)
	b, err := NewAWGN(8, 1, 5)
	require.NoError(t, err)

	x := []float32{1, -1, 1, -1, 1, -1, 1, -1}
	ya := make([]float32, 8)
	yb := make([]float32, 8)
	require.NoError(t, a.AddNoise(x, ya))
	require.NoError(t, b.AddNoise(x, yb))
	require.Equal(t, ya, yb)
}

func TestSetSigmaValidation(t *testing.T) {
	c, err := NewAWGN(4, 1, 0)
	require.NoError(t, err)
	require.ErrorIs(t, c.SetSigma(0), ErrInvalidSigma)
	require.ErrorIs(t, c.SetSigma(-0.1), ErrInvalidSigma)
}

func TestAddNoiseThroughTask(t *testing.T) {
	c, err := NewAWGN(4, 1, 11)
	require.NoError(t, err)
	require.NoError(t, c.SetSigma(0.1))

	task := c.AddNoiseTask()
	xm, err := task.Socket("X_mod")
	require.NoError(t, err)
	require.NoError(t, xm.BindSlice([]float32{1, 1, -1, -1}))
	require.NoError(t, task.Exec())

	yn, err := task.Socket("Y_N")
	require.NoError(t, err)
	for i, v := range yn.Data().([]float32) {
		require.InDelta(t, xm.Data().([]float32)[i], v, 1)
	}
}
