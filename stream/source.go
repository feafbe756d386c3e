package stream

import (
	"context"
	"iter"
)

// Source provides pull-based sequential access to a stream of values.
type Source[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the source.
	Close() error
}

// FromSlice yields the items of a slice.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

// FromSeq yields the values of an iterator. Close stops the iterator early.
func FromSeq[T any](seq iter.Seq[T]) Source[T] {
	next, stop := iter.Pull(seq)
	return &seqSource[T]{next: next, stop: stop}
}

// FromChannel yields values received from ch until it is closed.
func FromChannel[T any](ch <-chan T) Source[T] {
	return &chanSource[T]{ch: ch}
}

// FromFunc yields values from fn. fn returns ok=false at the end of the
// stream. closer may be nil.
func FromFunc[T any](fn func(ctx context.Context) (T, bool, error), closer func() error) Source[T] {
	return &funcSource[T]{next: fn, closer: closer}
}

// Collect pulls every value from src and closes it.
func Collect[T any](ctx context.Context, src Source[T]) ([]T, error) {
	defer src.Close()
	var out []T
	for {
		val, ok, err := src.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

// ForEach pulls every value from src, calls fn for each, and closes src.
func ForEach[T any](ctx context.Context, src Source[T], fn func(context.Context, T) error) error {
	defer src.Close()
	for {
		val, ok, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.index >= len(s.items) {
		return zero, false, nil
	}
	val := s.items[s.index]
	s.index++
	return val, true, nil
}

func (s *sliceSource[T]) Close() error { return nil }

type seqSource[T any] struct {
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) Next(ctx context.Context) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	val, ok := s.next()
	return val, ok, nil
}

func (s *seqSource[T]) Close() error {
	s.stop()
	return nil
}

type chanSource[T any] struct {
	ch <-chan T
}

func (s *chanSource[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case val, open := <-s.ch:
		return val, open, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (s *chanSource[T]) Close() error { return nil }

type funcSource[T any] struct {
	next   func(ctx context.Context) (T, bool, error)
	closer func() error
}

func (s *funcSource[T]) Next(ctx context.Context) (T, bool, error) {
	return s.next(ctx)
}

func (s *funcSource[T]) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// result carries a value or error through a channel.
type result[T any] struct {
	val T
	err error
}

// channelSource reads values from a channel fed by background goroutines.
type channelSource[T any] struct {
	ch     <-chan result[T]
	closer func() error
}

func (s *channelSource[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case r, open := <-s.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return r.val, r.err == nil, r.err
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (s *channelSource[T]) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
