package steady

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type (
	// RetryConfig controls the stale-element retry loop. It is a value
	// type: every handle derived from another one gets its own copy.
	RetryConfig struct {
		// MaxAttempts is the total number of attempts, at least 1.
		MaxAttempts int
		// Delay is the fixed pause between two attempts.
		Delay time.Duration
		// Verbose turns on diagnostic log lines.
		Verbose bool
	}

	// Option configures a handle, a wrapped driver or a list.
	Option func(*settings)

	// ScriptClickFunc clicks a raw element through script execution. It
	// is only called after a native click was intercepted.
	ScriptClickFunc func(ctx context.Context, el Element) error

	// settings is everything a handle carries besides its resolver. It is
	// copied by value into derived handles.
	settings struct {
		logger      logrus.FieldLogger
		clock       Clock
		scriptClick ScriptClickFunc
		hooks       Hooks
		retry       RetryConfig
	}
)

// normalized returns c with MaxAttempts raised to at least one and a
// non-negative delay.
func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}

	if c.Delay < 0 {
		c.Delay = 0
	}

	return c
}

// WithRetry sets the attempt budget and the delay between attempts.
// Values below one attempt are raised to one.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(s *settings) {
		s.retry.MaxAttempts = maxAttempts
		s.retry.Delay = delay
	}
}

// WithVerbose toggles diagnostic logging.
func WithVerbose(verbose bool) Option {
	return func(s *settings) {
		s.retry.Verbose = verbose
	}
}

// WithRetryConfig replaces the whole retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(s *settings) {
		s.retry = cfg
	}
}

// WithLogger sets the sink for diagnostic lines. The default is
// [logrus.StandardLogger].
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithHooks sets lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(s *settings) {
		s.hooks = h
	}
}

// WithClock sets the clock used for waits and retry delays.
func WithClock(c Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithScriptClick replaces the script click used when a native click is
// intercepted. The default is [JSClick].
func WithScriptClick(fn ScriptClickFunc) Option {
	return func(s *settings) {
		s.scriptClick = fn
	}
}

func newSettings(defaults RetryConfig, opts []Option) settings {
	s := settings{retry: defaults}

	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	if s.clock == nil {
		s.clock = RealClock{}
	}

	if s.scriptClick == nil {
		s.scriptClick = JSClick
	}

	s.retry = s.retry.normalized()

	return s
}

// logf writes a diagnostic line when verbose logging is on.
func (s *settings) logf(
	level logrus.Level,
	fields logrus.Fields,
	format string,
	args ...any,
) {
	if !s.retry.Verbose {
		return
	}

	s.logger.WithFields(fields).Logf(level, format, args...)
}
