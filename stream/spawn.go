package stream

import (
	"context"
	"sync"
)

// Outcome is the result of one task run by Spawn.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Spawn applies fn to each value of src on up to n worker goroutines and
// yields one Outcome per value in completion order. A failing task does not
// stop the others; its error is carried in the Outcome. An error from src
// is returned by Next and ends the stream.
//
// The workers start immediately and run until src is exhausted, ctx is
// cancelled, or the returned source is closed. Close cancels outstanding
// work, waits for the goroutines to exit and closes src.
func Spawn[I, O any](ctx context.Context, src Source[I], n int, fn func(context.Context, I) (O, error)) Source[Outcome[O]] {
	if n <= 0 {
		n = 1
	}
	workerCtx, cancel := context.WithCancel(ctx)
	in := make(chan I)
	out := make(chan result[Outcome[O]], n)
	done := make(chan struct{})

	var (
		wg       sync.WaitGroup
		closeErr error
	)

	// Producer: pull from source into the input channel. The channel is
	// unbuffered, so no element is pulled before a worker is free.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(in)
		defer func() { closeErr = src.Close() }()
		for {
			val, ok, err := src.Next(workerCtx)
			if err != nil {
				select {
				case out <- result[Outcome[O]]{err: err}:
				case <-workerCtx.Done():
				}
				return
			}
			if !ok {
				return
			}
			select {
			case in <- val:
			case <-workerCtx.Done():
				return
			}
		}
	}()

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for val := range in {
				o, err := fn(workerCtx, val)
				select {
				case out <- result[Outcome[O]]{val: Outcome[O]{Value: o, Err: err}}:
				case <-workerCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
		close(done)
	}()

	return &channelSource[Outcome[O]]{
		ch: out,
		closer: func() error {
			cancel()
			<-done
			return closeErr
		},
	}
}
