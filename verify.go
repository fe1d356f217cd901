package bptree

import (
	"fmt"
	"math"
)

// Verify walks the whole tree and checks its structural invariants: uniform
// leaf depth, node occupancy, key order within nodes and against the
// separators above them, parent back references, the doubly linked leaf chain
// and the key count. It returns an error wrapping ErrCorruption describing the
// first violation found.
func (t *Tree) Verify() error {
	root := t.node(t.root)
	if root == nil {
		return fmt.Errorf("%w: root %d does not resolve", ErrCorruption, t.root)
	}
	if root.parent != nilNode {
		return fmt.Errorf("%w: root %d has parent %d", ErrCorruption, root.id, root.parent)
	}

	v := &verifier{tree: t, leafDepth: -1}
	if err := v.walk(root, 0, math.MinInt64, math.MaxInt64, false); err != nil {
		return err
	}

	if v.keys != t.size {
		return fmt.Errorf("%w: counted %d keys, tree records %d", ErrCorruption, v.keys, t.size)
	}
	if v.nodes != t.nodes.Len() {
		return fmt.Errorf("%w: reached %d nodes, arena holds %d", ErrCorruption, v.nodes, t.nodes.Len())
	}

	return v.checkChain()
}

type verifier struct {
	tree      *Tree
	leafDepth int
	leaves    []*node // In key order
	keys      int
	nodes     int
}

// walk checks n and its subtree. Every key in the subtree must satisfy
// low <= key < high; hasHigh is false for the rightmost spine, where high is
// not an exclusive bound.
func (v *verifier) walk(n *node, depth int, low, high int64, hasHigh bool) error {
	t := v.tree
	v.nodes++

	if n.numKeys > t.maxKeys {
		return fmt.Errorf("%w: node %d has %d keys, max %d", ErrCorruption, n.id, n.numKeys, t.maxKeys)
	}
	if n.parent != nilNode && n.numKeys < t.minKeys {
		return fmt.Errorf("%w: node %d has %d keys, min %d", ErrCorruption, n.id, n.numKeys, t.minKeys)
	}

	for i := 0; i < n.numKeys; i++ {
		k := n.keys[i]
		if i > 0 && n.keys[i-1] >= k {
			return fmt.Errorf("%w: node %d keys not strictly ascending at %d", ErrCorruption, n.id, i)
		}
		if k < low || (hasHigh && k >= high) {
			return fmt.Errorf("%w: node %d key %d outside separator bounds [%d, %d)", ErrCorruption, n.id, k, low, high)
		}
	}

	if n.isLeaf {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return fmt.Errorf("%w: leaf %d at depth %d, expected %d", ErrCorruption, n.id, depth, v.leafDepth)
		}
		v.leaves = append(v.leaves, n)
		v.keys += n.numKeys
		return nil
	}

	if n.numKeys == 0 {
		return fmt.Errorf("%w: branch %d has no keys", ErrCorruption, n.id)
	}

	for i := 0; i <= n.numKeys; i++ {
		child := t.node(n.children[i])
		if child == nil {
			return fmt.Errorf("%w: branch %d child %d does not resolve", ErrCorruption, n.id, i)
		}
		if child.parent != n.id {
			return fmt.Errorf("%w: node %d has parent %d, expected %d", ErrCorruption, child.id, child.parent, n.id)
		}

		childLow, childHigh, childHasHigh := low, high, hasHigh
		if i > 0 {
			childLow = n.keys[i-1]
		}
		if i < n.numKeys {
			childHigh, childHasHigh = n.keys[i], true
		}
		if err := v.walk(child, depth+1, childLow, childHigh, childHasHigh); err != nil {
			return err
		}
	}

	return nil
}

// checkChain compares the leaf chain against the in-order leaf sequence.
func (v *verifier) checkChain() error {
	var prevKey int64
	seen := false

	for i, leaf := range v.leaves {
		wantPrev, wantNext := nilNode, nilNode
		if i > 0 {
			wantPrev = v.leaves[i-1].id
		}
		if i < len(v.leaves)-1 {
			wantNext = v.leaves[i+1].id
		}
		if leaf.prev != wantPrev || leaf.next != wantNext {
			return fmt.Errorf("%w: leaf %d links (%d, %d), expected (%d, %d)",
				ErrCorruption, leaf.id, leaf.prev, leaf.next, wantPrev, wantNext)
		}

		for _, k := range leaf.activeKeys() {
			if seen && k <= prevKey {
				return fmt.Errorf("%w: leaf chain not ascending at key %d", ErrCorruption, k)
			}
			prevKey, seen = k, true
		}
	}

	return nil
}
