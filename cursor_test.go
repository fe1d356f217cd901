package bptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorSequentialScan(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 4)
	for i := int64(1); i <= 100; i++ {
		tree.Insert(i, float64(i)/2)
	}

	c := tree.Cursor()
	assert.False(t, c.Valid(), "new cursor is unpositioned")

	k, v := c.First()
	require.True(t, c.Valid())
	assert.Equal(t, int64(1), k)
	assert.Equal(t, 0.5, v)

	count := 1
	for {
		k, v = c.Next()
		if !c.Valid() {
			break
		}
		count++
		assert.Equal(t, int64(count), k)
		assert.Equal(t, float64(count)/2, v)
		assert.Equal(t, k, c.Key())
		assert.Equal(t, v, c.Value())
	}

	assert.Equal(t, 100, count)
	assert.Equal(t, int64(0), c.Key(), "exhausted cursor returns zero values")
}

func TestCursorReverseScan(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 3)
	for i := int64(50); i >= 1; i-- {
		tree.Insert(i*10, float64(i))
	}

	c := tree.Cursor()
	k, _ := c.Last()
	require.True(t, c.Valid())
	assert.Equal(t, int64(500), k)

	count := 1
	for {
		k, _ = c.Prev()
		if !c.Valid() {
			break
		}
		assert.Equal(t, int64(500-count*10), k)
		count++
	}
	assert.Equal(t, 50, count)
}

func TestCursorSeek(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 3)
	for i := int64(0); i < 40; i++ {
		tree.Insert(i*10, float64(i))
	}

	tests := []struct {
		name      string
		seek      int64
		wantValid bool
		wantKey   int64
	}{
		{name: "exact", seek: 120, wantValid: true, wantKey: 120},
		{name: "between_keys", seek: 121, wantValid: true, wantKey: 130},
		{name: "before_first", seek: -100, wantValid: true, wantKey: 0},
		{name: "last", seek: 390, wantValid: true, wantKey: 390},
		{name: "past_last", seek: 391, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := tree.Cursor()
			k, _ := c.Seek(tt.seek)
			assert.Equal(t, tt.wantValid, c.Valid())
			if tt.wantValid {
				assert.Equal(t, tt.wantKey, k)
			}
		})
	}
}

// Seeking the gap after a leaf's last key must land on the next leaf.
func TestCursorSeekAcrossLeafBoundary(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 3)
	for _, k := range []int64{10, 20, 30, 40, 50, 60} {
		tree.Insert(k, 0)
	}
	// Leave a gap at the end of a leaf without touching its separator
	require.True(t, tree.Delete(40))

	c := tree.Cursor()
	for seek := int64(31); seek <= 50; seek++ {
		k, _ := c.Seek(seek)
		require.True(t, c.Valid(), "seek %d", seek)
		assert.Equal(t, int64(50), k, "seek %d", seek)
	}
}

func TestCursorDirectionChange(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 3)
	for i := int64(1); i <= 10; i++ {
		tree.Insert(i, 0)
	}

	c := tree.Cursor()
	c.Seek(5)
	k, _ := c.Next()
	assert.Equal(t, int64(6), k)
	k, _ = c.Prev()
	assert.Equal(t, int64(5), k)
	k, _ = c.Prev()
	assert.Equal(t, int64(4), k)

	c.First()
	c.Prev()
	assert.False(t, c.Valid())
	k, _ = c.Next()
	assert.False(t, c.Valid(), "an exhausted cursor stays exhausted")
	assert.Equal(t, int64(0), k)
}

func TestCursorEmptyTree(t *testing.T) {
	t.Parallel()

	tree := newTree(t, 5)
	c := tree.Cursor()

	c.First()
	assert.False(t, c.Valid())
	c.Last()
	assert.False(t, c.Valid())
	c.Seek(0)
	assert.False(t, c.Valid())
}
