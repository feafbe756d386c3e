package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/run"
	"github.com/kbukum/folds/stream"
)

func testConfig(chunk int) Config {
	var cfg Config
	cfg.Run.ChunkSize = chunk
	cfg.Run.Concurrency = 2
	cfg.Seed = 7
	cfg.ApplyDefaults()
	return cfg
}

func input(s string) stream.Source[string] {
	return tokens(io.NopCloser(strings.NewReader(s)))
}

func TestConfig_Defaults(t *testing.T) {
	cfg := testConfig(0)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "foldstat", cfg.Name)
	assert.Equal(t, 20, cfg.SampleSize)
	assert.Equal(t, run.DefaultChunkSize, cfg.Run.ChunkSize)
	assert.Equal(t, "foldstat", cfg.Telemetry.ServiceName)

	cfg.SampleSize = -1
	assert.Error(t, cfg.Validate())
}

func TestTokens(t *testing.T) {
	got, err := stream.Collect(context.Background(), input(" 1 2\n3\t\t4.5 \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4.5"}, got)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 2.5, parseNumber("2.5"))
	assert.Equal(t, 3.0, parseNumber("3,"))
	assert.Panics(t, func() { parseNumber("x") })
}

func TestSummarize(t *testing.T) {
	res, rep, err := summarize(context.Background(), testConfig(2), input("1 2 3 4 5"),
		run.WithLogger(logger.Nop()))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Left.N)
	assert.InDelta(t, 3.0, res.Left.Mean, 1e-12)
	assert.InDelta(t, 2.5, res.Left.Variance, 1e-12)
	assert.False(t, res.Right.Full)
	assert.ElementsMatch(t, []float64{1, 2, 3, 4, 5}, res.Right.Items)
	assert.Equal(t, 3, rep.Tasks)
	assert.Zero(t, rep.Dropped)
}

func TestSummarize_SkipsMalformedChunk(t *testing.T) {
	res, rep, err := summarize(context.Background(), testConfig(2), input("1 2 x 4 5 6"),
		run.WithLogger(logger.Nop()))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Left.N)
	assert.InDelta(t, 3.5, res.Left.Mean, 1e-12)
	assert.Equal(t, 2, rep.Tasks)
	assert.Equal(t, 1, rep.Dropped)
	assert.Error(t, rep.Err)
}

func TestSummarize_SampleFull(t *testing.T) {
	cfg := testConfig(16)
	cfg.SampleSize = 3

	var sb strings.Builder
	for i := range 100 {
		sb.WriteString(strings.Repeat(" ", i%3+1))
		sb.WriteString("7")
	}
	res, _, err := summarize(context.Background(), cfg, input(sb.String()), run.WithLogger(logger.Nop()))
	require.NoError(t, err)
	assert.True(t, res.Right.Full)
	assert.Equal(t, []float64{7, 7, 7}, res.Right.Items)
	assert.InDelta(t, 0.0, res.Left.Variance, 1e-12)
}

func TestPrintResult(t *testing.T) {
	res, _, err := summarize(context.Background(), testConfig(10), input("2 4"), run.WithLogger(logger.Nop()))
	require.NoError(t, err)

	var buf bytes.Buffer
	printResult(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "Summary (2 values)")
	assert.Contains(t, out, "mean: 3.000")
	assert.Contains(t, out, "var: 2.000")

	buf.Reset()
	printResult(&buf, Result{})
	assert.Equal(t, "Summary (0 values)\n", buf.String())
}
