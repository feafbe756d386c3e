package observability

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ShutdownFunc flushes and stops the providers installed by Init.
type ShutdownFunc func(context.Context) error

// Init installs the global tracer and meter providers described by cfg.
// With cfg.Enabled false it installs nothing and returns a no-op shutdown.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		var result *multierror.Error
		if err := tp.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("tracer shutdown: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("meter shutdown: %w", err))
		}
		return result.ErrorOrNil()
	}, nil
}
