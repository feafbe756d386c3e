package run

import (
	"context"
	"slices"
	"testing"

	"github.com/kbukum/folds/fold"
	"github.com/kbukum/folds/stream"
)

const benchN = 1 << 20

func benchInput() []int64 {
	xs := make([]int64, benchN)
	for i := range xs {
		xs[i] = int64(i*7919) % 1000003
	}
	return xs
}

func BenchmarkSum(b *testing.B) {
	xs := benchInput()
	f := fold.Sum[int64]()
	b.ReportAllocs()
	for b.Loop() {
		Fold(f, slices.Values(xs))
	}
}

func BenchmarkSumBatched(b *testing.B) {
	xs := benchInput()
	f := fold.Batched(fold.Sum[int64]())
	b.ReportAllocs()
	for b.Loop() {
		Fold(f, slices.Values([][]int64{xs}))
	}
}

func BenchmarkMinMax(b *testing.B) {
	xs := benchInput()
	f := fold.Par(fold.Min[int64](), fold.Max[int64]())
	b.ReportAllocs()
	for b.Loop() {
		Fold1(f, slices.Values(xs))
	}
}

func BenchmarkParSum(b *testing.B) {
	xs := benchInput()
	f := fold.Sum[int64]()
	b.ReportAllocs()
	for b.Loop() {
		Par(f, xs, WithChunkSize(1<<14))
	}
}

func BenchmarkStreamParSum(b *testing.B) {
	xs := benchInput()
	f := fold.Batched(fold.Sum[int64]())
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := StreamPar(ctx, f, 0, stream.Chunks(stream.FromSlice(xs), 1<<14)); err != nil {
			b.Fatal(err)
		}
	}
}
