// Package algo contains algorithms used for traversing and editing a b+ tree.
package algo

import "sort"

// DefaultSearchThreshold is the key count below which nodes are scanned
// linearly instead of binary searched.
const DefaultSearchThreshold = 32

// FindChildIndex returns the index of the first key strictly greater than key,
// or len(keys) if there is none. Branch nodes route to children[i] with it and
// leaves use it as the insertion position.
func FindChildIndex(keys []int64, key int64, threshold int) int {
	if len(keys) < threshold {
		i := 0
		for i < len(keys) && key >= keys[i] {
			i++
		}
		return i
	}

	return sort.Search(len(keys), func(i int) bool {
		return key < keys[i]
	})
}

// FindKey returns index of key in keys, or -1 if not found
func FindKey(keys []int64, key int64, threshold int) int {
	if len(keys) < threshold {
		for i := 0; i < len(keys); i++ {
			if keys[i] == key {
				return i
			}
		}
		return -1
	}

	idx := FindLowerBound(keys, key, threshold)
	if idx < len(keys) && keys[idx] == key {
		return idx
	}
	return -1
}

// FindLowerBound returns the index of the first key >= key, or len(keys).
func FindLowerBound(keys []int64, key int64, threshold int) int {
	if len(keys) < threshold {
		pos := 0
		for pos < len(keys) && key > keys[pos] {
			pos++
		}
		return pos
	}

	return sort.Search(len(keys), func(i int) bool {
		return keys[i] >= key
	})
}

// InsertAt shifts s[index:n] one slot to the right and stores v at index.
// s must have room for n+1 elements.
func InsertAt[T any](s []T, n, index int, v T) {
	copy(s[index+1:n+1], s[index:n])
	s[index] = v
}

// RemoveAt shifts s[index+1:n] one slot to the left and clears the vacated
// last slot.
func RemoveAt[T any](s []T, n, index int) {
	copy(s[index:n-1], s[index+1:n])
	var zero T
	s[n-1] = zero
}
