package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryTreeShape(t *testing.T) {
	tr := New[int](4, 2) // 8 leaves

	require.Equal(t, 2, tr.Arity())
	require.Equal(t, 4, tr.Levels())
	require.Equal(t, 15, tr.NumNodes())
	require.Len(t, tr.Leaves(), 8)

	root := tr.Root()
	require.True(t, tr.IsRoot(root))
	require.Equal(t, None, tr.Parent(root))
	require.Equal(t, 0, tr.Depth(root))
	require.Equal(t, -1, tr.LaneID(root))

	for _, ch := range tr.Children(root) {
		require.Equal(t, root, tr.Parent(ch))
		require.Equal(t, 1, tr.Depth(ch))
	}
}

func TestLaneIDsLeftToRight(t *testing.T) {
	tr := New[int](3, 3) // 9 leaves
	leaves := tr.Leaves()
	require.Len(t, leaves, 9)
	for lane, id := range leaves {
		require.True(t, tr.IsLeaf(id))
		require.Equal(t, lane, tr.LaneID(id))
		require.Equal(t, 2, tr.Depth(id))
	}

	// first leaf is the leftmost descendant, depth first
	first := tr.Children(tr.Children(tr.Root())[0])[0]
	require.Equal(t, leaves[0], first)
}

func TestSingleLevelTreeIsALeafRoot(t *testing.T) {
	tr := New[int](1, 2)
	require.Equal(t, 1, tr.NumNodes())
	require.True(t, tr.IsLeaf(tr.Root()))
	require.Equal(t, 0, tr.LaneID(tr.Root()))
}

func TestContentsAreMutableInPlace(t *testing.T) {
	type payload struct{ v int }
	tr := New[payload](2, 2)

	for i, leaf := range tr.Leaves() {
		tr.Contents(leaf).v = i + 1
	}
	require.Equal(t, 1, tr.Contents(tr.Leaves()[0]).v)
	require.Equal(t, 2, tr.Contents(tr.Leaves()[1]).v)
	require.Equal(t, 0, tr.Contents(tr.Root()).v)
}
