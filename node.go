package bptree

import (
	"fmt"

	"bptree/internal/algo"
	"bptree/internal/arena"
)

// nodeID is the arena handle of a node. Children hold owning handles; parent
// and leaf sibling handles are non-owning back references.
type nodeID uint32

const nilNode = nodeID(arena.Nil)

// node represents a B+ tree node. isLeaf selects the payload in use: leaves
// carry values and sibling links, branches carry children.
//
// keys and values have one slot more than the tree's maximum key count and
// children two, so an insert can overflow a node by one entry before the
// split that resolves it.
type node struct {
	id      nodeID
	parent  nodeID // nilNode for the root
	isLeaf  bool
	numKeys int
	keys    []int64

	// Leaf payload
	values []float64
	prev   nodeID
	next   nodeID

	// Branch payload
	children []nodeID
}

// activeKeys returns the occupied part of the key array.
func (n *node) activeKeys() []int64 {
	return n.keys[:n.numKeys]
}

// removeEntry drops the key/value pair at index i from a leaf.
func (n *node) removeEntry(i int) {
	algo.RemoveAt(n.keys, n.numKeys, i)
	algo.RemoveAt(n.values, n.numKeys, i)
	n.numKeys--
}

// insertEntry stores a key/value pair at index i of a leaf.
func (n *node) insertEntry(i int, key int64, value float64) {
	algo.InsertAt(n.keys, n.numKeys, i, key)
	algo.InsertAt(n.values, n.numKeys, i, value)
	n.numKeys++
}

func (t *Tree) newLeaf() *node {
	id, n := t.nodes.Alloc()
	n.id = nodeID(id)
	n.isLeaf = true
	n.keys = make([]int64, t.maxKeys+1)
	n.values = make([]float64, t.maxKeys+1)
	return n
}

func (t *Tree) newBranch() *node {
	id, n := t.nodes.Alloc()
	n.id = nodeID(id)
	n.keys = make([]int64, t.maxKeys+1)
	n.children = make([]nodeID, t.maxKeys+2)
	return n
}

// node resolves a handle; nilNode and freed handles resolve to nil.
func (t *Tree) node(id nodeID) *node {
	return t.nodes.Get(uint32(id))
}

func (t *Tree) freeNode(n *node) {
	t.nodes.Free(uint32(n.id))
}

// childIndex returns the position of child id among parent's children.
func (t *Tree) childIndex(parent *node, id nodeID) int {
	for i := 0; i <= parent.numKeys; i++ {
		if parent.children[i] == id {
			return i
		}
	}
	panic(fmt.Sprintf("%v: node %d is not a child of node %d", ErrCorruption, id, parent.id))
}

// setParent re-parents every child handle in ids to parent.
func (t *Tree) setParent(ids []nodeID, parent nodeID) {
	for _, id := range ids {
		t.node(id).parent = parent
	}
}
