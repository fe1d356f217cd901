package bptree

import "bptree/internal/algo"

// insertIntoLeaf stores key/value in sorted position, splitting the leaf when
// it overflows.
func (t *Tree) insertIntoLeaf(leaf *node, key int64, value float64) {
	i := algo.FindChildIndex(leaf.activeKeys(), key, t.opts.searchThreshold)
	leaf.insertEntry(i, key, value)

	if leaf.numKeys > t.maxKeys {
		t.splitLeaf(leaf)
	}
}

// splitLeaf moves every entry after the first minKeys of an overflowing leaf
// into a new right sibling, links the sibling into the leaf chain and hands a
// copy of its first key up as the separator. Leaves keep all their data, so
// unlike a branch split the separator stays in the sibling.
func (t *Tree) splitLeaf(leaf *node) {
	sibling := t.newLeaf()

	keep := t.minKeys
	copy(sibling.keys, leaf.keys[keep:leaf.numKeys])
	copy(sibling.values, leaf.values[keep:leaf.numKeys])
	sibling.numKeys = leaf.numKeys - keep
	clear(leaf.keys[keep:leaf.numKeys])
	clear(leaf.values[keep:leaf.numKeys])
	leaf.numKeys = keep

	// Splice sibling into the chain right after leaf
	sibling.prev = leaf.id
	sibling.next = leaf.next
	if next := t.node(leaf.next); next != nil {
		next.prev = sibling.id
	}
	leaf.next = sibling.id

	t.promote(leaf, sibling.keys[0], sibling)
}

// deleteFromLeaf removes key from leaf and reports whether it was present.
// A leaf holding more than minKeys entries, or the root, simply drops the
// entry; a minimal leaf borrows from or merges with a sibling.
func (t *Tree) deleteFromLeaf(leaf *node, key int64) bool {
	i := algo.FindKey(leaf.activeKeys(), key, t.opts.searchThreshold)
	if i < 0 {
		return false
	}

	if leaf.numKeys > t.minKeys || leaf.parent == nilNode {
		leaf.removeEntry(i)
		return true
	}

	t.deleteWithMerge(leaf, i)
	return true
}

// deleteWithMerge removes entry i from a leaf holding exactly minKeys entries
// and restores occupancy by, in order: borrowing the left sibling's last
// entry, borrowing the right sibling's first entry, or merging with a sibling.
func (t *Tree) deleteWithMerge(leaf *node, i int) {
	parent := t.node(leaf.parent)
	idx := t.childIndex(parent, leaf.id)

	leaf.removeEntry(i)

	var left, right *node
	if idx > 0 {
		left = t.node(parent.children[idx-1])
	}
	if idx < parent.numKeys {
		right = t.node(parent.children[idx+1])
	}

	switch {
	case left != nil && left.numKeys > t.minKeys:
		last := left.numKeys - 1
		leaf.insertEntry(0, left.keys[last], left.values[last])
		left.removeEntry(last)
		parent.keys[idx-1] = leaf.keys[0]
		return

	case right != nil && right.numKeys > t.minKeys:
		leaf.insertEntry(leaf.numKeys, right.keys[0], right.values[0])
		right.removeEntry(0)
		parent.keys[idx] = right.keys[0]
		return

	case idx == 0:
		t.mergeLeaves(leaf, right, parent, 0)

	default:
		t.mergeLeaves(left, leaf, parent, idx-1)
	}

	if parent.numKeys < t.minKeys {
		t.borrowOrMerge(parent)
	}
}

// mergeLeaves appends right's entries to left, unlinks right from the leaf
// chain and removes separator sep and right's child slot from parent.
func (t *Tree) mergeLeaves(left, right *node, parent *node, sep int) {
	copy(left.keys[left.numKeys:], right.keys[:right.numKeys])
	copy(left.values[left.numKeys:], right.values[:right.numKeys])
	left.numKeys += right.numKeys

	left.next = right.next
	if next := t.node(right.next); next != nil {
		next.prev = left.id
	}

	algo.RemoveAt(parent.keys, parent.numKeys, sep)
	algo.RemoveAt(parent.children, parent.numKeys+1, sep+1)
	parent.numKeys--

	t.freeNode(right)
}
