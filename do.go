package steady

import "context"

// Retry runs fn with the stale-element retry loop of a handle, for
// actions that do not go through one (script calls, multi-element
// gestures). Without options it uses [DefaultElementConfig]. Failures
// other than [ErrStaleElement] are returned at once.
//
//nolint:ireturn // generic type parameter T, not an interface
func Retry[T any](
	ctx context.Context,
	fn func(context.Context) (T, error),
	opts ...Option,
) (T, error) {
	s := newSettings(DefaultElementConfig(), opts)

	return DoRetry(ctx, fn, RetryParams{
		Logger: s.logger,
		Hooks:  &s.hooks,
		Clock:  s.clock,
		Config: s.retry,
		Op:     OpRetry,
	})
}
