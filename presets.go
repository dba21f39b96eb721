package steady

import "time"

// Pattern: Factory Function - presets give the retry budgets handles and
// drivers start from when no option overrides them.

// DefaultElementConfig is used by [NewElement] and [NewLazyList]:
// 3 attempts, 500ms apart, verbose.
func DefaultElementConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
		Verbose:     true,
	}
}

// DefaultDriverConfig is used by [WrapDriver] and inherited by every
// element the driver hands out: 5 attempts, 500ms apart, verbose.
func DefaultDriverConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		Delay:       500 * time.Millisecond,
		Verbose:     true,
	}
}

// QuietConfig is DefaultElementConfig without diagnostic logging.
func QuietConfig() RetryConfig {
	cfg := DefaultElementConfig()
	cfg.Verbose = false

	return cfg
}
