package monitor

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCheckErrorsCounts(t *testing.T) {
	m, err := NewBER(4, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 4, m.K())

	m.CheckErrors([]uint8{0, 1, 0, 1}, []uint8{0, 1, 0, 1})
	m.CheckErrors([]uint8{0, 1, 0, 1}, []uint8{1, 1, 0, 0})

	require.Equal(t, uint64(2), m.FramesAnalyzed())
	require.Equal(t, uint64(2), m.BitErrors())
	require.Equal(t, uint64(1), m.FrameErrors())
	require.InDelta(t, 0.25, m.BER(), 1e-9)
	require.InDelta(t, 0.5, m.FER(), 1e-9)
}

func TestCheckErrorsMultiFrame(t *testing.T) {
	m, err := NewBER(2, 3, nil)
	require.NoError(t, err)

	u := []uint8{0, 0, 1, 1, 0, 1}
	v := []uint8{0, 0, 0, 0, 0, 1}
	m.CheckErrors(u, v)

	require.Equal(t, uint64(3), m.FramesAnalyzed())
	require.Equal(t, uint64(2), m.BitErrors())
	require.Equal(t, uint64(1), m.FrameErrors())
}

func TestResetKeepsNothing(t *testing.T) {
	m, err := NewBER(2, 1, nil)
	require.NoError(t, err)
	m.CheckErrors([]uint8{0, 1}, []uint8{1, 0})
	m.Reset()

	require.Equal(t, uint64(0), m.FramesAnalyzed())
	require.Equal(t, uint64(0), m.BitErrors())
	require.Equal(t, uint64(0), m.FrameErrors())
	require.Equal(t, 0.0, m.BER())
	require.Equal(t, 0.0, m.FER())
}

func TestPrometheusCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewBER(2, 1, reg)
	require.NoError(t, err)

	m.CheckErrors([]uint8{0, 1}, []uint8{0, 0})
	m.CheckErrors([]uint8{0, 1}, []uint8{0, 1})

	require.Equal(t, 2.0, testutil.ToFloat64(m.framesCtr))
	require.Equal(t, 1.0, testutil.ToFloat64(m.bitErrCtr))
	require.Equal(t, 1.0, testutil.ToFloat64(m.frameErrCtr))

	// double registration on the same registry fails
	_, err = NewBER(2, 1, reg)
	require.Error(t, err)
}

func TestCheckThroughTask(t *testing.T) {
	m, err := NewBER(2, 1, nil)
	require.NoError(t, err)

	task := m.CheckTask()
	u, err := task.Socket("U")
	require.NoError(t, err)
	require.NoError(t, u.BindSlice([]uint8{1, 0}))
	v, err := task.Socket("V")
	require.NoError(t, err)
	require.NoError(t, v.BindSlice([]uint8{1, 1}))

	require.NoError(t, task.Exec())
	require.Equal(t, uint64(1), m.FramesAnalyzed())
	require.Equal(t, uint64(1), m.BitErrors())
}
