package steady

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAwaitReturnsReadyElement(t *testing.T) {
	el := newFakeElement("e1", nil)

	got, err := NewWaitPolicy(newAutoClock()).Await(context.Background(), staticRef(el, nil), Clickable)
	require.NoError(t, err)
	require.Same(t, el, got)
}

func TestAwaitTimesOut(t *testing.T) {
	el := newFakeElement("e1", nil)
	el.hidden = true
	clock := newAutoClock()

	_, err := NewWaitPolicy(clock).Await(context.Background(), staticRef(el, nil), Visible)
	require.ErrorIs(t, err, ErrConditionTimeout)
	require.ErrorContains(t, err, "visible not met within 10s")
	require.Equal(t, WaitTimeout, clock.slept(0))
}

func TestAwaitStopsOnForeignError(t *testing.T) {
	boom := errors.New("boom")
	polls := 0

	_, err := NewWaitPolicy(newAutoClock()).Await(context.Background(), func(context.Context) (Element, error) {
		polls++

		return nil, boom
	}, DOMPresent)

	require.Same(t, boom, err)
	require.Equal(t, 1, polls)
}

func TestAwaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWaitPolicy(stuckClock{}).Await(ctx, func(context.Context) (Element, error) {
		return nil, ErrStaleElement
	}, DOMPresent)

	require.ErrorIs(t, err, ErrConditionTimeout)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewWaitPolicyDefaults(t *testing.T) {
	w := NewWaitPolicy(nil)

	require.Equal(t, RealClock{}, w.Clock)
	require.Equal(t, WaitTimeout, w.Timeout)
	require.Equal(t, ConditionPollInterval, w.Interval)
}
