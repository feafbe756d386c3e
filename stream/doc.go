// Package stream provides pull-based asynchronous sources for the streaming
// drivers in package run.
//
// A Source yields values until it reports the end of the stream or an
// error. Sources are not safe for concurrent use; one goroutine pulls.
//
// Basic usage:
//
//	src := stream.Chunks(stream.FromSlice(values), 1024)
//	defer src.Close()
//	for {
//	    chunk, ok, err := src.Next(ctx)
//	    ...
//	}
//
// Spawn fans elements out to a bounded set of worker goroutines and yields
// their outcomes in completion order.
package stream
