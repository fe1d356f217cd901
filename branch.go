package bptree

import "bptree/internal/algo"

// insertIntoBranch adds separator and its right-hand child to n after a child
// split, splitting n in turn when it overflows.
func (t *Tree) insertIntoBranch(n *node, separator int64, child *node) {
	i := algo.FindChildIndex(n.activeKeys(), separator, t.opts.searchThreshold)
	algo.InsertAt(n.keys, n.numKeys, i, separator)
	algo.InsertAt(n.children, n.numKeys+1, i+1, child.id)
	n.numKeys++
	child.parent = n.id

	if n.numKeys > t.maxKeys {
		t.splitBranch(n)
	}
}

// splitBranch splits an overflowing branch holding maxKeys+1 keys. n keeps the
// first maxKeys-minKeys keys, the next key moves up to the parent (it is not
// kept in either half) and the new right sibling takes the last minKeys keys
// with their children.
func (t *Tree) splitBranch(n *node) {
	sibling := t.newBranch()

	mid := t.maxKeys - t.minKeys
	separator := n.keys[mid]

	copy(sibling.keys, n.keys[mid+1:n.numKeys])
	copy(sibling.children, n.children[mid+1:n.numKeys+1])
	sibling.numKeys = n.numKeys - mid - 1
	t.setParent(sibling.children[:sibling.numKeys+1], sibling.id)

	clear(n.keys[mid:n.numKeys])
	clear(n.children[mid+1 : n.numKeys+1])
	n.numKeys = mid

	t.promote(n, separator, sibling)
}

// borrowOrMerge restores a branch that dropped below minKeys. The root is
// exempt unless it has no keys left, in which case its only child replaces
// it. Other branches rotate a key through the parent from the left sibling,
// else from the right sibling, else merge with a sibling and pass any
// deficiency on to the parent.
func (t *Tree) borrowOrMerge(n *node) {
	if n.parent == nilNode {
		if n.numKeys == 0 {
			t.collapseRoot(n)
		}
		return
	}

	parent := t.node(n.parent)
	idx := t.childIndex(parent, n.id)

	var left, right *node
	if idx > 0 {
		left = t.node(parent.children[idx-1])
	}
	if idx < parent.numKeys {
		right = t.node(parent.children[idx+1])
	}

	switch {
	case left != nil && left.numKeys > t.minKeys:
		t.rotateRight(left, n, parent, idx-1)
		return

	case right != nil && right.numKeys > t.minKeys:
		t.rotateLeft(n, right, parent, idx)
		return

	case idx == 0:
		t.mergeBranches(n, right, parent, 0)

	default:
		t.mergeBranches(left, n, parent, idx-1)
	}

	if parent.numKeys < t.minKeys {
		t.borrowOrMerge(parent)
	}
}

// rotateRight moves separator sep of parent down as n's first key, left's
// last child over as n's first child and left's last key up as the new
// separator.
func (t *Tree) rotateRight(left, n, parent *node, sep int) {
	algo.InsertAt(n.keys, n.numKeys, 0, parent.keys[sep])
	algo.InsertAt(n.children, n.numKeys+1, 0, left.children[left.numKeys])
	n.numKeys++
	t.node(n.children[0]).parent = n.id

	parent.keys[sep] = left.keys[left.numKeys-1]

	left.keys[left.numKeys-1] = 0
	left.children[left.numKeys] = nilNode
	left.numKeys--
}

// rotateLeft moves separator sep of parent down as n's last key, right's
// first child over as n's last child and right's first key up as the new
// separator.
func (t *Tree) rotateLeft(n, right, parent *node, sep int) {
	n.keys[n.numKeys] = parent.keys[sep]
	n.children[n.numKeys+1] = right.children[0]
	n.numKeys++
	t.node(right.children[0]).parent = n.id

	parent.keys[sep] = right.keys[0]

	algo.RemoveAt(right.keys, right.numKeys, 0)
	algo.RemoveAt(right.children, right.numKeys+1, 0)
	right.numKeys--
}

// mergeBranches pulls separator sep down from parent into left, appends all
// of right's keys and children to left and drops right from parent.
func (t *Tree) mergeBranches(left, right *node, parent *node, sep int) {
	left.keys[left.numKeys] = parent.keys[sep]
	copy(left.keys[left.numKeys+1:], right.keys[:right.numKeys])
	copy(left.children[left.numKeys+1:], right.children[:right.numKeys+1])
	t.setParent(right.children[:right.numKeys+1], left.id)
	left.numKeys += 1 + right.numKeys

	algo.RemoveAt(parent.keys, parent.numKeys, sep)
	algo.RemoveAt(parent.children, parent.numKeys+1, sep+1)
	parent.numKeys--

	t.freeNode(right)
}
