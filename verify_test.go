package bptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeLevels builds the order-3 tree
//
//	root [30]
//	[20]          [40,50]
//	[10] [20]     [30] [40] [50,60]
func threeLevels(t *testing.T) *Tree {
	t.Helper()

	tree, err := New(3)
	require.NoError(t, err)
	for _, k := range []int64{10, 20, 30, 40, 50, 60} {
		tree.Insert(k, float64(k))
	}
	require.NoError(t, tree.Verify())
	require.Equal(t, 3, tree.Height())
	return tree
}

func leftmostLeaf(tree *Tree) *node {
	n := tree.node(tree.root)
	for !n.isLeaf {
		n = tree.node(n.children[0])
	}
	return n
}

func TestVerifyDetectsCorruption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tree *Tree)
		want    string
	}{
		{
			name: "unsorted_leaf",
			corrupt: func(tree *Tree) {
				leaf := tree.node(leftmostLeaf(tree).next) // [20]
				leaf = tree.node(leaf.next)                // [30]
				leaf = tree.node(leaf.next)                // [40]
				leaf = tree.node(leaf.next)                // [50,60]
				leaf.keys[0], leaf.keys[1] = leaf.keys[1], leaf.keys[0]
			},
			want: "not strictly ascending",
		},
		{
			name: "key_outside_separator_bounds",
			corrupt: func(tree *Tree) {
				leftmostLeaf(tree).keys[0] = 25
			},
			want: "outside separator bounds",
		},
		{
			name: "broken_parent_reference",
			corrupt: func(tree *Tree) {
				leftmostLeaf(tree).parent = tree.root
			},
			want: "has parent",
		},
		{
			name: "broken_leaf_chain",
			corrupt: func(tree *Tree) {
				leaf := leftmostLeaf(tree)
				leaf.next = tree.node(leaf.next).next
			},
			want: "links",
		},
		{
			name: "size_mismatch",
			corrupt: func(tree *Tree) {
				tree.size++
			},
			want: "tree records",
		},
		{
			name: "underfull_node",
			corrupt: func(tree *Tree) {
				leaf := leftmostLeaf(tree)
				leaf.removeEntry(0)
				tree.size--
			},
			want: "min 1",
		},
		{
			name: "leaked_node",
			corrupt: func(tree *Tree) {
				tree.newLeaf()
			},
			want: "arena holds",
		},
		{
			name: "root_with_parent",
			corrupt: func(tree *Tree) {
				tree.node(tree.root).parent = leftmostLeaf(tree).id
			},
			want: "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := threeLevels(t)
			tt.corrupt(tree)

			err := tree.Verify()
			require.ErrorIs(t, err, ErrCorruption)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerifyAllowsStaleSeparators(t *testing.T) {
	t.Parallel()

	tree := threeLevels(t)

	// Deleting a leaf's first key from a leaf with spare entries leaves the
	// separator above it pointing at a key that no longer exists
	require.True(t, tree.Delete(50))
	assert.NoError(t, tree.Verify())

	_, ok := tree.Search(50)
	assert.False(t, ok)
	v, ok := tree.Search(60)
	assert.True(t, ok)
	assert.Equal(t, 60.0, v)
}
