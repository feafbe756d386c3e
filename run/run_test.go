package run

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"

	"github.com/kbukum/folds/errors"
	"github.com/kbukum/folds/fold"
	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/observability"
	"github.com/kbukum/folds/stream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ints(n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i
	}
	return xs
}

// collect keeps every item in order; its merge is not commutative.
func collect() fold.Def[int, []int, []int, fold.Mergeable] {
	return fold.NewMergeable(fold.Ops[int, []int, []int]{
		Empty:  func() []int { return nil },
		Step:   func(x int, acc *[]int) { *acc = append(*acc, x) },
		Output: func(acc []int) []int { return acc },
		Merge:  func(dst *[]int, src []int) { *dst = append(*dst, src...) },
	})
}

func split(xs []int, n int) [][]int {
	parts := make([][]int, n)
	for i, x := range xs {
		parts[i*n/max(len(xs), 1)] = append(parts[i*n/max(len(xs), 1)], x)
	}
	return parts
}

func TestDriversAgree(t *testing.T) {
	ctx := context.Background()
	f := fold.Par(fold.Sum[int](), fold.Count[int]())

	for _, n := range []int{0, 1, 50, 8192} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			xs := ints(n)
			want := fold.Pair[int, int]{Left: n * (n - 1) / 2, Right: n}

			assert.Equal(t, want, Fold(f, slices.Values(xs)))
			assert.Equal(t, want, Par(f, xs, WithChunkSize(7), WithWorkers(3)))
			assert.Equal(t, want, Partitions(f, split(xs, 5)))

			got, err := Stream(ctx, f, stream.FromSlice(xs))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			got, rep, err := StreamPar(ctx, fold.Batched(f), 4, stream.Chunks(stream.FromSlice(xs), 100))
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, (n+99)/100, rep.Tasks)
			assert.Zero(t, rep.Dropped)
			assert.NoError(t, rep.Err)
		})
	}
}

func TestPartialDriversAgree(t *testing.T) {
	ctx := context.Background()
	f := fold.Par(fold.Min[int](), fold.Max[int]())

	for _, n := range []int{1, 50, 8192} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			xs := ints(n)
			slices.Reverse(xs)
			want := fold.Pair[int, int]{Left: 0, Right: n - 1}

			got, ok := Fold1(f, slices.Values(xs))
			require.True(t, ok)
			assert.Equal(t, want, got)

			got, ok = Par1(f, xs, WithChunkSize(9))
			require.True(t, ok)
			assert.Equal(t, want, got)

			got, ok, err := Stream1(ctx, f, stream.FromSlice(xs))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestPar1_ManyNarrowVectors(t *testing.T) {
	rows := [][]int{{5}, {1, 2}, {3, 0}}
	f := fold.Many(fold.Min[int](), 2)

	got, ok := Par1(f, rows, WithChunkSize(1))
	require.True(t, ok)
	assert.Equal(t, []int{1, 0}, got)

	seq, ok := Fold1(f, slices.Values(rows))
	require.True(t, ok)
	assert.Equal(t, got, seq)
}

func TestPartialDrivers_Empty(t *testing.T) {
	_, ok := Fold1(fold.First[int](), slices.Values([]int(nil)))
	assert.False(t, ok)

	_, ok = Par1(fold.Min[int](), nil)
	assert.False(t, ok)

	_, ok, err := Stream1(context.Background(), fold.Last[int](), stream.FromSlice([]int{}))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFold_Empty(t *testing.T) {
	assert.Equal(t, 0, Fold(fold.Sum[int](), slices.Values([]int(nil))))
	assert.Equal(t, 0, Par(fold.Count[string](), nil))
	assert.Equal(t, 0, Partitions(fold.Sum[int](), nil))
	assert.Equal(t, 0, Partitions(fold.Sum[int](), [][]int{{}, {}, {}}))
}

func TestFold1_First(t *testing.T) {
	got, ok := Fold1(fold.First[string](), slices.Values([]string{"a", "b", "c"}))
	require.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestScan(t *testing.T) {
	got := slices.Collect(Scan(fold.Sum[int](), slices.Values([]int{1, 2, 3, 4})))
	assert.Equal(t, []int{1, 3, 6, 10}, got)

	var first []int
	for v := range Scan(fold.Sum[int](), slices.Values([]int{5, 5, 5})) {
		first = append(first, v)
		break
	}
	assert.Equal(t, []int{5}, first)
}

func TestPar_PreservesOrder(t *testing.T) {
	xs := ints(1000)
	for _, size := range []int{1, 3, 64, 999, 1000, 5000} {
		t.Run(fmt.Sprintf("chunk=%d", size), func(t *testing.T) {
			assert.Equal(t, xs, Par(collect(), xs, WithChunkSize(size), WithWorkers(4)))
		})
	}
}

func TestPartitions_EqualsFold(t *testing.T) {
	xs := ints(777)
	for _, n := range []int{1, 2, 7, 100} {
		assert.Equal(t, Fold(collect(), slices.Values(xs)), Partitions(collect(), split(xs, n)))
	}
}

func TestPar_GroupBy(t *testing.T) {
	f := fold.GroupBy(fold.Sum[int](), func(x int) int { return x % 3 })
	xs := ints(3000)
	assert.Equal(t, Fold(f, slices.Values(xs)), Par(f, xs, WithChunkSize(100)))
}

func TestPar_Mean(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, Par(fold.Mean[float64](), xs, WithChunkSize(1)), 1e-12)
}

func TestStream_ClosesSource(t *testing.T) {
	var closed atomic.Bool
	xs := ints(10)
	i := 0
	src := stream.FromFunc(func(context.Context) (int, bool, error) {
		if i == len(xs) {
			return 0, false, nil
		}
		i++
		return xs[i-1], true, nil
	}, func() error {
		closed.Store(true)
		return nil
	})

	got, err := Stream(context.Background(), fold.Sum[int](), src)
	require.NoError(t, err)
	assert.Equal(t, 45, got)
	assert.True(t, closed.Load())
}

func failingSource(n int, err error) stream.Source[int] {
	i := 0
	return stream.FromFunc(func(context.Context) (int, bool, error) {
		if i == n {
			return 0, false, err
		}
		i++
		return i, true, nil
	}, nil)
}

func TestStream_SourceError(t *testing.T) {
	boom := stderrors.New("boom")

	_, err := Stream(context.Background(), fold.Sum[int](), failingSource(3, boom))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceFailed))
	assert.ErrorIs(t, err, boom)

	_, ok, err := Stream1(context.Background(), fold.Max[int](), failingSource(3, boom))
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Stream(ctx, fold.Sum[int](), stream.FromSlice(ints(10)))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCancelled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamPar_DropsPanickingTask(t *testing.T) {
	f := fold.PreMap(fold.Sum[int](), func(x int) int {
		if x == 13 {
			panic("unlucky")
		}
		return x
	})

	got, rep, err := StreamPar(context.Background(), f, 3, stream.FromSlice(ints(21)))
	require.NoError(t, err)
	assert.Equal(t, 210-13, got)
	assert.Equal(t, 20, rep.Tasks)
	assert.Equal(t, 1, rep.Dropped)

	var merr *multierror.Error
	require.ErrorAs(t, rep.Err, &merr)
	require.Len(t, merr.Errors, 1)
	assert.True(t, errors.HasCode(merr.Errors[0], errors.ErrCodeTaskFailed))
	assert.Contains(t, merr.Errors[0].Error(), "unlucky")
}

func TestStreamPar_BatchedDropsWholeChunk(t *testing.T) {
	f := fold.Batched(fold.PreMap(fold.Count[int](), func(x int) int {
		if x == 250 {
			panic(stderrors.New("bad item"))
		}
		return x
	}))

	got, rep, err := StreamPar(context.Background(), f, 2, stream.Chunks(stream.FromSlice(ints(1000)), 100))
	require.NoError(t, err)
	assert.Equal(t, 900, got)
	assert.Equal(t, 9, rep.Tasks)
	assert.Equal(t, 1, rep.Dropped)
}

func TestStreamPar_SourceError(t *testing.T) {
	boom := stderrors.New("boom")
	_, _, err := StreamPar(context.Background(), fold.Sum[int](), 2, failingSource(5, boom))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceFailed))
	assert.ErrorIs(t, err, boom)
}

func TestStreamPar_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan int)
	go func() {
		ch <- 1
		cancel()
	}()

	_, _, err := StreamPar(ctx, fold.Sum[int](), 2, stream.FromChannel(ch))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCancelled))
}

func TestStreamPar_DefaultConcurrency(t *testing.T) {
	got, rep, err := StreamPar(context.Background(), fold.Sum[int](), 0,
		stream.FromSlice(ints(100)), WithConfig(Config{Concurrency: 3}))
	require.NoError(t, err)
	assert.Equal(t, 4950, got)
	assert.Equal(t, 100, rep.Tasks)
}

func TestStreamPar_MergeableReducer(t *testing.T) {
	var xs []float64
	for i := range 64 {
		xs = append(xs, float64(i))
	}
	seq := Fold(fold.Mean[float64](), slices.Values(xs))
	got, _, err := StreamPar(context.Background(), fold.Batched(fold.Mean[float64]()), 4,
		stream.Chunks(stream.FromSlice(xs), 8))
	require.NoError(t, err)
	assert.InDelta(t, seq, got, 1e-12)
}

func TestDriver_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "run", &buf)

	Par(fold.Sum[int](), ints(10), WithLogger(log), WithChunkSize(5))

	out := buf.String()
	assert.Contains(t, out, "fold run started")
	assert.Contains(t, out, "fold run finished")
	assert.Contains(t, out, `"driver":"par"`)
	assert.Contains(t, out, `"tasks":2`)
	assert.Contains(t, out, `"run_id"`)
}

func TestDriver_LogsDroppedTasks(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, "run", &buf)

	f := fold.PreMap(fold.Sum[int](), func(x int) int {
		if x == 1 {
			panic("no")
		}
		return x
	})
	_, _, err := StreamPar(context.Background(), f, 1, stream.FromSlice(ints(3)), WithLogger(log))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "task dropped from merge")
	assert.Contains(t, lines[0], "TASK_FAILED")
}

func TestDriver_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	Par(fold.Sum[int](), ints(100), WithMetrics(metrics), WithChunkSize(10))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["fold.run.total"])
	assert.Equal(t, int64(100), sums["fold.items.total"])
	assert.Equal(t, int64(10), sums["fold.tasks.total"])
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, cfg.Workers, cfg.Concurrency)
	require.NoError(t, cfg.Validate())

	bad := Config{ChunkSize: 0, Workers: 1, Concurrency: 1}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "chunk_size")
}
