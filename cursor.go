package bptree

import "bptree/internal/algo"

// Cursor provides ordered iteration over the keys of a Tree in both
// directions. It follows the leaf chain, so moving between leaves never
// revisits branch nodes.
//
// A cursor is invalidated by any Insert or Delete on its tree; reposition it
// with First, Last or Seek before using it again.
type Cursor struct {
	tree  *Tree
	leaf  *node // Current leaf
	index int   // Current entry within leaf
	valid bool  // Is cursor positioned on a valid key?
}

// Cursor returns an unpositioned cursor over t.
func (t *Tree) Cursor() *Cursor {
	return &Cursor{tree: t}
}

// First positions the cursor at the smallest key.
// Returns key, value (zero values when the tree is empty)
func (c *Cursor) First() (int64, float64) {
	n := c.tree.node(c.tree.root)
	for !n.isLeaf {
		n = c.tree.node(n.children[0])
	}
	return c.position(n, 0)
}

// Last positions the cursor at the largest key.
// Returns key, value (zero values when the tree is empty)
func (c *Cursor) Last() (int64, float64) {
	n := c.tree.node(c.tree.root)
	for !n.isLeaf {
		n = c.tree.node(n.children[n.numKeys])
	}
	return c.position(n, n.numKeys-1)
}

// Seek positions the cursor at the first key >= key.
// The cursor is invalid when every key is smaller.
func (c *Cursor) Seek(key int64) (int64, float64) {
	leaf := c.tree.findLeaf(key)
	i := algo.FindLowerBound(leaf.activeKeys(), key, c.tree.opts.searchThreshold)

	// Target is past the end of this leaf, continue with the next one
	if i == leaf.numKeys && leaf.next != nilNode {
		return c.position(c.tree.node(leaf.next), 0)
	}
	return c.position(leaf, i)
}

// Next advances the cursor to the next key.
// Returns key, value (zero values once exhausted)
func (c *Cursor) Next() (int64, float64) {
	if !c.valid {
		return 0, 0
	}

	if c.index+1 < c.leaf.numKeys {
		return c.position(c.leaf, c.index+1)
	}

	// Exhausted current leaf, move to next
	if c.leaf.next == nilNode {
		return c.invalidate()
	}
	return c.position(c.tree.node(c.leaf.next), 0)
}

// Prev moves the cursor to the previous key.
// Returns key, value (zero values once exhausted)
func (c *Cursor) Prev() (int64, float64) {
	if !c.valid {
		return 0, 0
	}

	if c.index > 0 {
		return c.position(c.leaf, c.index-1)
	}

	// Exhausted current leaf, move to previous
	if c.leaf.prev == nilNode {
		return c.invalidate()
	}
	prev := c.tree.node(c.leaf.prev)
	return c.position(prev, prev.numKeys-1)
}

// Key returns the current key (only valid when Valid() == true)
func (c *Cursor) Key() int64 {
	if !c.valid {
		return 0
	}
	return c.leaf.keys[c.index]
}

// Value returns the current value (only valid when Valid() == true)
func (c *Cursor) Value() float64 {
	if !c.valid {
		return 0
	}
	return c.leaf.values[c.index]
}

// Valid returns true if the cursor is positioned on a key.
func (c *Cursor) Valid() bool {
	return c.valid
}

func (c *Cursor) position(leaf *node, index int) (int64, float64) {
	if index < 0 || index >= leaf.numKeys {
		return c.invalidate()
	}
	c.leaf = leaf
	c.index = index
	c.valid = true
	return leaf.keys[index], leaf.values[index]
}

func (c *Cursor) invalidate() (int64, float64) {
	c.leaf = nil
	c.index = 0
	c.valid = false
	return 0, 0
}
