package store

import (
	"cmp"
	"io"
	"slices"
)

// Linear is a Store backed by a slice kept in ascending order.
//
// Insert finds its position by binary search but still shifts the tail, so
// both Insert and Remove cost O(N). Queries index the slice directly.
type Linear struct {
	data []float64
}

// NewLinear returns an empty Linear store.
func NewLinear() *Linear {
	return &Linear{}
}

// Insert places value before the first element that is >= value.
func (l *Linear) Insert(value float64) {
	// BinarySearchFunc yields the leftmost position whose element is >= value.
	i, _ := slices.BinarySearchFunc(l.data, value, cmp.Compare[float64])
	l.data = slices.Insert(l.data, i, value)
}

// Remove deletes the first element equal to value.
func (l *Linear) Remove(value float64) {
	i := slices.IndexFunc(l.data, func(v float64) bool { return cmp.Compare(v, value) == 0 })
	if i < 0 {
		return
	}
	l.data = slices.Delete(l.data, i, i+1)
}

// Size returns the number of samples held.
func (l *Linear) Size() int { return len(l.data) }

// Clear truncates the slice but keeps its capacity for the next cycle.
func (l *Linear) Clear() { l.data = l.data[:0] }

// KSmallest copies up to n values from the front of the slice.
func (l *Linear) KSmallest(n int) []float64 {
	n = clampCount(n, len(l.data))
	out := make([]float64, n)
	copy(out, l.data[:n])
	return out
}

// KLargest copies up to n values from the back of the slice, largest first.
func (l *Linear) KLargest(n int) []float64 {
	n = clampCount(n, len(l.data))
	out := make([]float64, n)
	for i := range n {
		out[i] = l.data[len(l.data)-1-i]
	}
	return out
}

// RangeQuery scans forward and stops at the first value above hi.
func (l *Linear) RangeQuery(lo, hi float64) []float64 {
	out := []float64{}
	for _, v := range l.data {
		if cmp.Compare(v, hi) > 0 {
			break
		}
		if inRange(v, lo, hi) {
			out = append(out, v)
		}
	}
	return out
}

// Median indexes the middle of the slice directly.
func (l *Linear) Median() float64 {
	return middle(len(l.data), func(i int) float64 { return l.data[i] })
}

// PrintSorted writes the slice as is; it is already in order.
func (l *Linear) PrintSorted(w io.Writer) { printSorted(w, KindLinear, l.data) }

// Kind returns KindLinear.
func (l *Linear) Kind() Kind { return KindLinear }

// clampCount bounds a requested count to [0, size].
func clampCount(n, size int) int {
	if n < 0 {
		return 0
	}
	return min(n, size)
}
