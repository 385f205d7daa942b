package store

import (
	"cmp"
	"io"

	"github.com/google/btree"
)

// degree of the underlying B-tree. 32 keeps nodes around a few cache lines.
const degree = 32

// occurrence is a single node of the multiset. The sequence number makes
// every occurrence a distinct key, so equal values never replace each other.
type occurrence struct {
	value float64
	seq   uint64
}

func lessOccurrence(a, b occurrence) bool {
	if c := cmp.Compare(a.value, b.value); c != 0 {
		return c < 0
	}
	return a.seq < b.seq
}

// Balanced is a Store backed by a self-balancing B-tree holding one node per
// occurrence.
//
// Insert and Remove cost O(log N). Median walks the tree in order up to the
// middle position and is O(N): the tree does not keep subtree sizes, so there
// is no rank index to jump to.
type Balanced struct {
	tree *btree.BTreeG[occurrence]
	// next is the sequence number handed to the next insert. Sequence numbers
	// start at 1 so that seq 0 can act as a lower-bound pivot for a value.
	next uint64
}

// NewBalanced returns an empty Balanced store.
func NewBalanced() *Balanced {
	return &Balanced{
		tree: btree.NewG(degree, lessOccurrence),
		next: 1,
	}
}

// Insert adds a node tagged with the next sequence number.
func (b *Balanced) Insert(value float64) {
	b.tree.ReplaceOrInsert(occurrence{value: value, seq: b.next})
	b.next++
}

// Remove deletes the oldest occurrence equal to value, leaving any other
// duplicates in place.
func (b *Balanced) Remove(value float64) {
	var found occurrence
	var ok bool
	b.tree.AscendGreaterOrEqual(occurrence{value: value}, func(o occurrence) bool {
		found, ok = o, cmp.Compare(o.value, value) == 0
		return false
	})
	if ok {
		b.tree.Delete(found)
	}
}

// Size returns the number of nodes in the tree.
func (b *Balanced) Size() int { return b.tree.Len() }

// Clear drops every node and restarts the sequence.
func (b *Balanced) Clear() {
	b.tree.Clear(false)
	b.next = 1
}

// KSmallest walks the tree in ascending order, stopping after n values.
func (b *Balanced) KSmallest(n int) []float64 {
	n = clampCount(n, b.tree.Len())
	out := make([]float64, 0, n)
	if n == 0 {
		return out
	}
	b.tree.Ascend(func(o occurrence) bool {
		out = append(out, o.value)
		return len(out) < n
	})
	return out
}

// KLargest walks the tree in descending order, stopping after n values.
func (b *Balanced) KLargest(n int) []float64 {
	n = clampCount(n, b.tree.Len())
	out := make([]float64, 0, n)
	if n == 0 {
		return out
	}
	b.tree.Descend(func(o occurrence) bool {
		out = append(out, o.value)
		return len(out) < n
	})
	return out
}

// RangeQuery seeks to the first occurrence >= lo and walks until a value
// exceeds hi.
func (b *Balanced) RangeQuery(lo, hi float64) []float64 {
	out := []float64{}
	if cmp.Compare(lo, hi) > 0 {
		return out
	}
	b.tree.AscendGreaterOrEqual(occurrence{value: lo}, func(o occurrence) bool {
		if cmp.Compare(o.value, hi) > 0 {
			return false
		}
		out = append(out, o.value)
		return true
	})
	return out
}

// Median walks to the middle position, remembering the element just before it
// for even sizes.
func (b *Balanced) Median() float64 {
	size := b.tree.Len()
	if size == 0 {
		return 0
	}

	target := size / 2
	var prev, cur float64
	i := 0
	b.tree.Ascend(func(o occurrence) bool {
		prev, cur = cur, o.value
		i++
		return i <= target
	})

	if size%2 != 0 {
		return cur
	}
	return (prev + cur) / 2
}

// PrintSorted writes every value from an in-order walk.
func (b *Balanced) PrintSorted(w io.Writer) {
	values := make([]float64, 0, b.tree.Len())
	b.tree.Ascend(func(o occurrence) bool {
		values = append(values, o.value)
		return true
	})
	printSorted(w, KindBalanced, values)
}

// Kind returns KindBalanced.
func (b *Balanced) Kind() Kind { return KindBalanced }
