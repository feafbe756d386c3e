package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/folds/stream"
)

// openInput opens path for reading. An empty path or "-" means stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// tokens yields the whitespace-separated words of r and closes r when the
// source is closed.
func tokens(r io.ReadCloser) stream.Source[string] {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return stream.FromFunc(func(ctx context.Context) (string, bool, error) {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if !sc.Scan() {
			return "", false, sc.Err()
		}
		return sc.Text(), true, nil
	}, r.Close)
}

// parseNumber parses one token. It panics on malformed input so that the
// chunk holding the token is dropped by the parallel driver.
func parseNumber(s string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSuffix(s, ","), 64)
	if err != nil {
		panic(err)
	}
	return x
}
