package bptree

import (
	"fmt"
	"iter"

	"bptree/internal/algo"
	"bptree/internal/arena"
)

// Tree is an in-memory B+ tree mapping int64 keys to float64 values.
//
// A Tree is not safe for concurrent use. Callers must serialize Insert and
// Delete against every other call; concurrent Search, SearchRange and Range
// calls are safe as long as no mutation runs alongside them.
type Tree struct {
	order   int
	maxKeys int // order - 1
	minKeys int // ceil(order/2) - 1, not enforced on the root

	root  nodeID
	nodes *arena.Arena[node]
	size  int

	opts Options
	log  Logger
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Keys     int
	Leaves   int
	Branches int
	Height   int
}

// New creates an empty tree of the given order, the maximum number of
// children a branch node may have.
func New(order int, options ...Option) (*Tree, error) {
	if order < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}

	// Apply options
	opts := DefaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	t := &Tree{
		order:   order,
		maxKeys: order - 1,
		minKeys: (order+1)/2 - 1,
		nodes:   arena.New[node](),
		opts:    opts,
		log:     opts.logger,
	}
	t.root = t.newLeaf().id

	return t, nil
}

// Insert stores value under key. The key must not already be present: the
// tree does not check for duplicates and their behavior is unspecified.
func (t *Tree) Insert(key int64, value float64) {
	t.insertIntoLeaf(t.findLeaf(key), key, value)
	t.size++
}

// Search returns the value stored under key.
func (t *Tree) Search(key int64) (float64, bool) {
	leaf := t.findLeaf(key)
	i := algo.FindKey(leaf.activeKeys(), key, t.opts.searchThreshold)
	if i < 0 {
		return 0, false
	}
	return leaf.values[i], true
}

// SearchRange returns, in ascending key order, the values of all keys k with
// low <= k <= high.
func (t *Tree) SearchRange(low, high int64) []float64 {
	var values []float64
	for _, v := range t.Range(low, high) {
		values = append(values, v)
	}
	return values
}

// Range yields the key/value pairs with low <= key <= high in ascending key
// order. The first qualifying leaf is located once; the scan then follows the
// leaf chain until a key exceeds high.
func (t *Tree) Range(low, high int64) iter.Seq2[int64, float64] {
	return func(yield func(int64, float64) bool) {
		if low > high {
			return
		}

		leaf := t.findLeaf(low)
		i := algo.FindLowerBound(leaf.activeKeys(), low, t.opts.searchThreshold)
		for leaf != nil {
			for ; i < leaf.numKeys; i++ {
				if leaf.keys[i] > high {
					return
				}
				if !yield(leaf.keys[i], leaf.values[i]) {
					return
				}
			}
			leaf = t.node(leaf.next)
			i = 0
		}
	}
}

// Delete removes key and reports whether it was present.
func (t *Tree) Delete(key int64) bool {
	if !t.deleteFromLeaf(t.findLeaf(key), key) {
		return false
	}
	t.size--
	return true
}

// Len returns the number of stored keys.
func (t *Tree) Len() int {
	return t.size
}

// Order returns the maximum number of children of a branch node.
func (t *Tree) Order() int {
	return t.order
}

// MaxKeys returns the maximum number of keys in any node.
func (t *Tree) MaxKeys() int {
	return t.maxKeys
}

// MinKeys returns the minimum number of keys in any non-root node.
func (t *Tree) MinKeys() int {
	return t.minKeys
}

// Height returns the number of levels, 1 for a tree whose root is a leaf.
func (t *Tree) Height() int {
	h := 1
	for n := t.node(t.root); !n.isLeaf; n = t.node(n.children[0]) {
		h++
	}
	return h
}

// Stats walks the tree and counts its nodes.
func (t *Tree) Stats() Stats {
	s := Stats{Keys: t.size, Height: t.Height()}

	level := []nodeID{t.root}
	for len(level) > 0 {
		var next []nodeID
		for _, id := range level {
			n := t.node(id)
			if n.isLeaf {
				s.Leaves++
				continue
			}
			s.Branches++
			next = append(next, n.children[:n.numKeys+1]...)
		}
		level = next
	}

	return s
}

// findLeaf descends from the root to the leaf whose key range covers key.
func (t *Tree) findLeaf(key int64) *node {
	n := t.node(t.root)
	for !n.isLeaf {
		i := algo.FindChildIndex(n.activeKeys(), key, t.opts.searchThreshold)
		n = t.node(n.children[i])
	}
	return n
}

// promote hands separator and right, the new sibling produced by splitting
// left, to left's parent. Splitting the root grows the tree by one level.
func (t *Tree) promote(left *node, separator int64, right *node) {
	if left.parent == nilNode {
		root := t.newBranch()
		root.keys[0] = separator
		root.children[0] = left.id
		root.children[1] = right.id
		root.numKeys = 1
		left.parent = root.id
		right.parent = root.id
		t.root = root.id

		t.log.Info("root split", "separator", separator, "height", t.Height())
		return
	}

	t.insertIntoBranch(t.node(left.parent), separator, right)
}

// collapseRoot replaces a branch root left without keys by its only child.
func (t *Tree) collapseRoot(root *node) {
	child := t.node(root.children[0])
	child.parent = nilNode
	t.root = child.id
	t.freeNode(root)

	t.log.Info("root collapse", "height", t.Height())
}
