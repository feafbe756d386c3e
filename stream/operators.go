package stream

import "context"

// Map applies fn to each value in order. An error from fn ends the stream.
func Map[I, O any](src Source[I], fn func(context.Context, I) (O, error)) Source[O] {
	return &mapSource[I, O]{src: src, fn: fn}
}

// Filter passes through only the values for which fn returns true.
func Filter[T any](src Source[T], fn func(T) bool) Source[T] {
	return &filterSource[T]{src: src, fn: fn}
}

// Chunks groups consecutive values into slices of up to size items. The last
// chunk may be shorter. A source error is reported after the values read
// before it have been emitted.
func Chunks[T any](src Source[T], size int) Source[[]T] {
	if size <= 0 {
		size = 1
	}
	return &chunkSource[T]{src: src, size: size}
}

type mapSource[I, O any] struct {
	src Source[I]
	fn  func(context.Context, I) (O, error)
}

func (s *mapSource[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := s.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (s *mapSource[I, O]) Close() error { return s.src.Close() }

type filterSource[T any] struct {
	src Source[T]
	fn  func(T) bool
}

func (s *filterSource[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if s.fn(val) {
			return val, true, nil
		}
	}
}

func (s *filterSource[T]) Close() error { return s.src.Close() }

type chunkSource[T any] struct {
	src  Source[T]
	size int
	err  error
	done bool
}

func (s *chunkSource[T]) Next(ctx context.Context) ([]T, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if s.done {
		return nil, false, nil
	}

	chunk := make([]T, 0, s.size)
	for len(chunk) < s.size {
		val, ok, err := s.src.Next(ctx)
		if err != nil {
			if len(chunk) > 0 {
				s.err = err
				return chunk, true, nil
			}
			return nil, false, err
		}
		if !ok {
			s.done = true
			break
		}
		chunk = append(chunk, val)
	}
	if len(chunk) == 0 {
		return nil, false, nil
	}
	return chunk, true, nil
}

func (s *chunkSource[T]) Close() error { return s.src.Close() }
