// Package store provides ordered multisets of float64 samples that answer
// order-statistics queries: k-smallest, k-largest, inclusive range and median.
//
// Two strategies satisfy the same Store contract and can be swapped at
// construction time:
//
//   - Linear keeps a sorted slice. Inserts binary-search the position and
//     shift, so mutation is O(N) while median is O(1).
//   - Balanced keeps a self-balancing B-tree with one node per occurrence.
//     Mutation is O(log N) while median is an O(N) in-order walk, since the
//     tree maintains no subtree sizes.
//
// Ordering follows cmp.Compare: NaN sorts before every other value and is
// equal to itself. Stores are not safe for concurrent use.
package store

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind identifies a backing strategy.
type Kind string

const (
	// KindLinear is the sorted slice strategy.
	KindLinear Kind = "linear"
	// KindBalanced is the balanced tree strategy.
	KindBalanced Kind = "balanced"
)

// ErrUnknownKind is returned when a strategy name is not recognized.
var ErrUnknownKind = errors.New("unknown store kind")

// Kinds lists every supported strategy, in a stable order.
func Kinds() []Kind {
	return []Kind{KindLinear, KindBalanced}
}

// Store is the capability contract shared by all strategies.
//
// Every query leaves the store untouched. Queries that cannot be fully
// answered (n larger than Size, empty range, empty store) return what is
// available instead of failing.
type Store interface {
	// Insert adds one occurrence of value.
	Insert(value float64)
	// Remove deletes one occurrence equal to value. It is a no-op if absent.
	Remove(value float64)
	// Size returns the number of occurrences held.
	Size() int
	// Clear empties the store.
	Clear()
	// KSmallest returns up to n smallest values in ascending order.
	KSmallest(n int) []float64
	// KLargest returns up to n largest values in descending order.
	KLargest(n int) []float64
	// RangeQuery returns every value v with lo <= v <= hi in ascending order.
	RangeQuery(lo, hi float64) []float64
	// Median returns the middle value, the mean of the two middle values for
	// an even size, or 0.0 for an empty store.
	Median() float64
	// PrintSorted writes every value in ascending order on a single line.
	PrintSorted(w io.Writer)
	// Kind reports the backing strategy.
	Kind() Kind
}

// New returns an empty store of the given kind.
func New(kind Kind) (Store, error) {
	switch kind {
	case KindLinear:
		return NewLinear(), nil
	case KindBalanced:
		return NewBalanced(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Kinds() {
		if kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// MedianOf returns the median of s along with false when s is empty.
//
// Store.Median returns 0.0 for an empty store, which cannot be told apart from
// a genuine zero reading. Callers that care use this instead.
func MedianOf(s Store) (float64, bool) {
	if s.Size() == 0 {
		return 0, false
	}
	return s.Median(), true
}

// label is the human-readable strategy name used by PrintSorted.
func (k Kind) label() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindBalanced:
		return "balanced tree"
	default:
		return string(k)
	}
}

// printSorted renders values for Store.PrintSorted.
func printSorted(w io.Writer, kind Kind, values []float64) {
	var sb strings.Builder
	sb.WriteString("Sorted samples (")
	sb.WriteString(kind.label())
	sb.WriteString("):")
	for _, v := range values {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte('\n')
	_, _ = io.WriteString(w, sb.String())
}

// middle computes the median from the one or two middle values.
func middle(size int, at func(i int) float64) float64 {
	if size == 0 {
		return 0
	}
	if size%2 != 0 {
		return at(size / 2)
	}
	return (at(size/2-1) + at(size/2)) / 2
}

// inRange reports whether lo <= v <= hi under the store ordering.
func inRange(v, lo, hi float64) bool {
	return cmp.Compare(v, lo) >= 0 && cmp.Compare(v, hi) <= 0
}
