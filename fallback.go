package steady

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Pattern: Fallback - an intercepted native click gets exactly one
// script-click retry on the same resolved element; it does not consume
// the stale-retry budget.

// clickFallback clicks el through the configured script click after
// clickErr. It returns nil when the script click succeeded and a
// [*ClickFallbackError] naming both causes otherwise.
func (h *ElementHandle) clickFallback(
	ctx context.Context,
	el Element,
	clickErr error,
) error {
	fields := logrus.Fields{"op": OpClick.String()}

	h.s.logf(logrus.WarnLevel, fields, "click intercepted, trying script click: %v", clickErr)

	if err := h.s.scriptClick(ctx, el); err != nil {
		h.s.logf(logrus.ErrorLevel, fields, "script click failed: %v", err)
		h.s.hooks.emitClickFallback(err)

		return &ClickFallbackError{Click: clickErr, Script: err}
	}

	h.s.logf(logrus.InfoLevel, fields, "script click succeeded")
	h.s.hooks.emitClickFallback(nil)

	return nil
}
