package steady

import "time"

// Hooks holds optional callbacks fired by handles and lists. All fields
// are nil by default. A Hooks value is copied into every derived handle
// and must not be mutated afterwards.
//
// Pattern: Observer - lets metrics or test probes follow retries, wait
// timeouts and fallbacks without the decorators knowing about them.
type Hooks struct {
	// OnStaleRetry fires before sleeping for another attempt.
	OnStaleRetry func(op Op, attempt int, err error)
	// OnRetriesExhausted fires once the last attempt went stale.
	OnRetriesExhausted func(op Op, attempts int, err error)
	// OnWaitTimeout fires when a readiness wait gave up.
	OnWaitTimeout func(op Op, cond Condition)
	// OnClickFallback fires when an intercepted click is retried through
	// a script. err is nil when the script click succeeded.
	OnClickFallback func(err error)
	// OnIndexWait fires when a list index became available (or the wait
	// gave up) with the time spent waiting.
	OnIndexWait func(index int, waited time.Duration)
}

func (h *Hooks) emitStaleRetry(op Op, attempt int, err error) {
	if h.OnStaleRetry != nil {
		h.OnStaleRetry(op, attempt, err)
	}
}

func (h *Hooks) emitRetriesExhausted(op Op, attempts int, err error) {
	if h.OnRetriesExhausted != nil {
		h.OnRetriesExhausted(op, attempts, err)
	}
}

func (h *Hooks) emitWaitTimeout(op Op, cond Condition) {
	if h.OnWaitTimeout != nil {
		h.OnWaitTimeout(op, cond)
	}
}

func (h *Hooks) emitClickFallback(err error) {
	if h.OnClickFallback != nil {
		h.OnClickFallback(err)
	}
}

func (h *Hooks) emitIndexWait(index int, waited time.Duration) {
	if h.OnIndexWait != nil {
		h.OnIndexWait(index, waited)
	}
}
