package steady

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RetryParams carries the collaborators of [DoRetry].
type RetryParams struct {
	// Logger receives diagnostic lines when Config.Verbose is set.
	// Nil means [logrus.StandardLogger].
	Logger logrus.FieldLogger
	// Hooks is optional.
	Hooks *Hooks
	// Clock times the delay between attempts. Nil means [RealClock].
	Clock Clock
	// Config is the attempt budget.
	Config RetryConfig
	// Op names the operation in logs, hooks and errors.
	Op Op
}

// Pattern: Retry with fixed delay - masks stale element references by
// re-running the whole resolve/wait/act attempt.
//
// DoRetry runs fn up to Config.MaxAttempts times. Only failures carrying
// [ErrStaleElement] are retried; anything else is returned at once without
// consuming the budget. Between attempts the goroutine sleeps Config.Delay.
// A context cancelled during that sleep yields an error wrapping
// [ErrInterrupted]. When the budget runs out the last stale error is
// returned joined with [ErrRetriesExhausted].
//
//nolint:ireturn // generic type parameter T, not an interface
func DoRetry[T any](
	ctx context.Context,
	fn func(context.Context) (T, error),
	params RetryParams,
) (T, error) {
	cfg := params.Config.normalized()

	hooks := params.Hooks
	if hooks == nil {
		hooks = &Hooks{}
	}

	clock := params.Clock
	if clock == nil {
		clock = RealClock{}
	}

	logger := params.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var (
		zero    T
		lastErr error
	)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if !IsStale(err) {
			return zero, err
		}

		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.Verbose {
			logger.WithFields(logrus.Fields{
				"op":           params.Op.String(),
				"attempt":      attempt,
				"max_attempts": cfg.MaxAttempts,
			}).Warn("stale element reference, retrying")
		}

		hooks.emitStaleRetry(params.Op, attempt, err)

		if sleepErr := sleep(ctx, clock, cfg.Delay); sleepErr != nil {
			return zero, fmt.Errorf(
				"%w after attempt %d: %w",
				ErrInterrupted,
				attempt,
				sleepErr,
			)
		}
	}

	if cfg.Verbose {
		logger.WithFields(logrus.Fields{
			"op":           params.Op.String(),
			"max_attempts": cfg.MaxAttempts,
		}).Error("stale element reference, attempts exhausted")
	}

	hooks.emitRetriesExhausted(params.Op, cfg.MaxAttempts, lastErr)

	return zero, fmt.Errorf(
		"%w after %d attempts: %w",
		ErrRetriesExhausted,
		cfg.MaxAttempts,
		lastErr,
	)
}
