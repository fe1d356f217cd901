package bptree

import (
	"bufio"
	"io"
	"strconv"

	"bptree/internal/format"
)

const rootMarker = "[root]"

// Dump writes the tree to w one level per line, root first. Branches print
// their keys comma-joined, leaves print key(value) pairs, nodes on a level
// are separated by three spaces and the root carries a [root] marker.
//
// Example for a two-level tree of order 3:
//
//	108[root]
//	21(0.3534)   108(31.907),56089(3.26)
func (t *Tree) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	level := []nodeID{t.root}
	for len(level) > 0 {
		var next []nodeID
		for i, id := range level {
			n := t.node(id)
			if i > 0 {
				bw.WriteString("   ")
			}
			writeNode(bw, n)
			if n.parent == nilNode {
				bw.WriteString(rootMarker)
			}
			if !n.isLeaf {
				next = append(next, n.children[:n.numKeys+1]...)
			}
		}
		bw.WriteByte('\n')
		level = next
	}

	return bw.Flush()
}

func writeNode(bw *bufio.Writer, n *node) {
	for i := 0; i < n.numKeys; i++ {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatInt(n.keys[i], 10))
		if n.isLeaf {
			bw.WriteByte('(')
			bw.WriteString(format.Double(n.values[i]))
			bw.WriteByte(')')
		}
	}
}
