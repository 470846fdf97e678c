// Package tree provides an arena-backed full k-ary tree used to express
// recursive kernel factorizations. Nodes are addressed by integer handles;
// parent/child relations are stored as indices, so there is no ownership
// ordering to maintain when a tree goes away.
package tree

// NodeID addresses a node inside a Tree. The root is always node 0.
type NodeID int

// None is the parent of the root.
const None NodeID = -1

type node struct {
	parent   NodeID
	children []NodeID
	depth    int
	laneID   int // leaves only, -1 elsewhere
}

// Tree is a full arity-ary tree of the given number of levels. Contents are
// stored per node in the arena; Contents returns a pointer into it so codecs
// can mutate node payloads in place.
type Tree[C any] struct {
	nodes    []node
	contents []C
	leaves   []NodeID // lane-id order
	arity    int
	levels   int
}

// New builds a full tree with `levels` levels (a single root for levels == 1)
// where every internal node has `arity` children. Leaves are assigned lane
// ids 0..nLeaves-1 in left-to-right order.
func New[C any](levels, arity int) *Tree[C] {
	if levels < 1 {
		levels = 1
	}
	if arity < 2 {
		arity = 2
	}
	t := &Tree[C]{arity: arity, levels: levels}
	t.build(None, 0)
	t.contents = make([]C, len(t.nodes))
	return t
}

func (t *Tree[C]) build(parent NodeID, depth int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent, depth: depth, laneID: -1})
	if depth == t.levels-1 {
		t.nodes[id].laneID = len(t.leaves)
		t.leaves = append(t.leaves, id)
		return id
	}
	children := make([]NodeID, t.arity)
	for c := 0; c < t.arity; c++ {
		children[c] = t.build(id, depth+1)
	}
	t.nodes[id].children = children
	return id
}

// Root returns the root's handle.
func (t *Tree[C]) Root() NodeID { return 0 }

// Arity returns the child count of internal nodes.
func (t *Tree[C]) Arity() int { return t.arity }

// Levels returns the number of levels, root included.
func (t *Tree[C]) Levels() int { return t.levels }

// NumNodes returns the total node count.
func (t *Tree[C]) NumNodes() int { return len(t.nodes) }

// Parent returns the parent handle, or None for the root.
func (t *Tree[C]) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the node's children in left-to-right order; nil for leaves.
func (t *Tree[C]) Children(id NodeID) []NodeID { return t.nodes[id].children }

// IsLeaf reports whether the node has no children.
func (t *Tree[C]) IsLeaf(id NodeID) bool { return t.nodes[id].children == nil }

// IsRoot reports whether the node is the root.
func (t *Tree[C]) IsRoot(id NodeID) bool { return t.nodes[id].parent == None }

// Depth returns the node's distance from the root.
func (t *Tree[C]) Depth(id NodeID) int { return t.nodes[id].depth }

// LaneID returns a leaf's position in left-to-right order, or -1 for
// internal nodes.
func (t *Tree[C]) LaneID(id NodeID) int { return t.nodes[id].laneID }

// Leaves returns the leaf handles in lane-id order.
func (t *Tree[C]) Leaves() []NodeID { return t.leaves }

// Contents returns a mutable pointer to the node's payload.
func (t *Tree[C]) Contents(id NodeID) *C { return &t.contents[id] }
