package steady

import (
	"context"
	"fmt"
	"time"
)

// WaitPolicy polls an element until it reaches a readiness [Condition].
// Every poll re-resolves the element, so a node that went stale between
// two polls is simply looked up again.
type WaitPolicy struct {
	Clock    Clock
	Timeout  time.Duration
	Interval time.Duration
}

// NewWaitPolicy returns the standard policy: [WaitTimeout] with
// [ConditionPollInterval] between polls.
func NewWaitPolicy(clock Clock) WaitPolicy {
	if clock == nil {
		clock = RealClock{}
	}

	return WaitPolicy{
		Clock:    clock,
		Timeout:  WaitTimeout,
		Interval: ConditionPollInterval,
	}
}

// Await polls ref until the resolved element satisfies cond and returns
// that element.
//
// Stale or missing elements count as "not yet". Any other failure ends the
// wait early and is returned as is. When the window elapses, or ctx is
// done, the returned error wraps [ErrConditionTimeout]. Callers are
// expected to treat both as advisory and attempt the operation anyway.
//
//nolint:ireturn // returns the resolved element
func (w WaitPolicy) Await(
	ctx context.Context,
	ref ElementRef,
	cond Condition,
) (Element, error) {
	start := w.Clock.Now()

	for {
		el, err := ref(ctx)
		if err == nil {
			var ready bool

			ready, err = checkCondition(ctx, el, cond)
			if err == nil && ready {
				return el, nil
			}
		}

		if err != nil && !isAbsent(err) {
			return nil, err
		}

		if w.Clock.Since(start) >= w.Timeout {
			return nil, fmt.Errorf(
				"%w: %s not met within %s",
				ErrConditionTimeout,
				cond,
				w.Timeout,
			)
		}

		if sleepErr := sleep(ctx, w.Clock, w.Interval); sleepErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrConditionTimeout, sleepErr)
		}
	}
}

func checkCondition(
	ctx context.Context,
	el Element,
	cond Condition,
) (bool, error) {
	switch cond {
	case Clickable:
		shown, err := el.IsDisplayed(ctx)
		if err != nil || !shown {
			return false, err
		}

		return el.IsEnabled(ctx) //nolint:wrapcheck // classified by caller

	case Visible:
		return el.IsDisplayed(ctx) //nolint:wrapcheck // classified by caller

	default:
		_, err := el.TagName(ctx)

		return err == nil, err
	}
}
