package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindChildIndex(t *testing.T) {
	tests := []struct {
		name string
		keys []int64
		key  int64
		want int
	}{
		{name: "empty_node", keys: nil, key: 5, want: 0},
		{name: "key_less_than_first", keys: []int64{10, 20}, key: 1, want: 0},
		{name: "key_equal_first", keys: []int64{10, 20}, key: 10, want: 1},
		{name: "key_between_keys", keys: []int64{10, 20}, key: 15, want: 1},
		{name: "key_equal_last", keys: []int64{10, 20}, key: 20, want: 2},
		{name: "key_greater_than_all", keys: []int64{10, 20}, key: 99, want: 2},
		{name: "negative_keys", keys: []int64{-30, -10, 0}, key: -20, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Linear scan and binary search must agree
			assert.Equal(t, tt.want, FindChildIndex(tt.keys, tt.key, DefaultSearchThreshold))
			assert.Equal(t, tt.want, FindChildIndex(tt.keys, tt.key, 0))
		})
	}
}

func TestFindKey(t *testing.T) {
	tests := []struct {
		name string
		keys []int64
		key  int64
		want int
	}{
		{name: "empty_leaf", keys: nil, key: 1, want: -1},
		{name: "key_found_first", keys: []int64{1, 2, 3}, key: 1, want: 0},
		{name: "key_found_middle", keys: []int64{1, 2, 3}, key: 2, want: 1},
		{name: "key_found_last", keys: []int64{1, 2, 3}, key: 3, want: 2},
		{name: "key_not_found_between", keys: []int64{1, 3, 5}, key: 4, want: -1},
		{name: "key_not_found_after", keys: []int64{1, 3, 5}, key: 9, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindKey(tt.keys, tt.key, DefaultSearchThreshold))
			assert.Equal(t, tt.want, FindKey(tt.keys, tt.key, 0))
		})
	}
}

func TestFindLowerBound(t *testing.T) {
	tests := []struct {
		name string
		keys []int64
		key  int64
		want int
	}{
		{name: "empty", keys: nil, key: 1, want: 0},
		{name: "before_all", keys: []int64{5, 10}, key: 1, want: 0},
		{name: "exact", keys: []int64{5, 10}, key: 10, want: 1},
		{name: "between", keys: []int64{5, 10}, key: 7, want: 1},
		{name: "after_all", keys: []int64{5, 10}, key: 11, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindLowerBound(tt.keys, tt.key, DefaultSearchThreshold))
			assert.Equal(t, tt.want, FindLowerBound(tt.keys, tt.key, 0))
		})
	}
}

func TestInsertAt(t *testing.T) {
	s := []int64{1, 3, 4, 0}
	InsertAt(s, 3, 1, int64(2))
	assert.Equal(t, []int64{1, 2, 3, 4}, s)

	s = []int64{1, 2, 0}
	InsertAt(s, 2, 2, int64(3))
	assert.Equal(t, []int64{1, 2, 3}, s, "append at end")

	s = []int64{0}
	InsertAt(s, 0, 0, int64(7))
	assert.Equal(t, []int64{7}, s, "insert into empty")
}

func TestRemoveAt(t *testing.T) {
	s := []int64{1, 2, 3, 4}
	RemoveAt(s, 4, 1)
	assert.Equal(t, []int64{1, 3, 4, 0}, s)

	s = []int64{1, 2, 3, 0}
	RemoveAt(s, 3, 2)
	assert.Equal(t, []int64{1, 2, 0, 0}, s, "remove last occupied")

	f := []float64{1.5}
	RemoveAt(f, 1, 0)
	assert.Equal(t, []float64{0}, f, "remove only element")
}
