// Package streams provides a generic, pull-based iterator.
//
// A Stream wraps a producer function and is consumed synchronously in the
// caller's goroutine: each call to NextContext pulls exactly one item. Streams
// are built from a plain function (FromFunc) and transformed lazily with Map
// and Take without spawning extra goroutines or channels.
//
// The simulation loop pulls sensor readings one at a time, so tests can hand
// it a fixed slice of readings instead of the random generator. The benchmark
// drains a bounded stream of temperatures with Exhaust.
package streams

import (
	"context"
)

// Stream is a lazy iterator over items of type T.
//
// The zero value is not usable; create streams with FromFunc.
type Stream[T any] struct {
	// next produces the next item. ok is false once the stream is exhausted.
	// err is non-nil only when ctx ended before an item was available.
	next func(ctx context.Context) (item T, ok bool, err error)
}

// FromFunc creates a Stream backed by a producer function.
//
// The producer must not block; context cancellation is only observed between
// calls.
func FromFunc[T any](produce func() (T, bool)) *Stream[T] {
	return &Stream[T]{
		next: func(ctx context.Context) (T, bool, error) {
			if err := ctx.Err(); err != nil {
				var zero T
				return zero, false, err
			}
			val, ok := produce()
			return val, ok, nil
		},
	}
}

// Map returns a Stream that applies conv to every item of sourceStream.
func Map[T, U any](sourceStream *Stream[T], conv func(T) U) *Stream[U] {
	return &Stream[U]{
		next: func(ctx context.Context) (U, bool, error) {
			val, ok, err := sourceStream.next(ctx)
			if err != nil || !ok {
				var zero U
				return zero, false, err
			}
			return conv(val), true, nil
		},
	}
}

// Take returns a Stream that ends after at most n items of sourceStream.
func Take[T any](sourceStream *Stream[T], n int) *Stream[T] {
	taken := 0
	return &Stream[T]{
		next: func(ctx context.Context) (T, bool, error) {
			if taken >= n {
				var zero T
				return zero, false, nil
			}
			val, ok, err := sourceStream.next(ctx)
			if ok {
				taken++
			}
			return val, ok, err
		},
	}
}

// NextContext produces the next item. ok is false once the stream is
// exhausted; err is ctx.Err() once ctx is done.
func (s *Stream[T]) NextContext(ctx context.Context) (T, bool, error) {
	return s.next(ctx)
}

// Exhaust drains the stream into a slice. On cancellation it returns nil and
// the context error.
func (s *Stream[T]) Exhaust(ctx context.Context) ([]T, error) {
	var items []T
	for {
		item, ok, err := s.next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, item)
	}
}
