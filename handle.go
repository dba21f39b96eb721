package steady

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ElementRef re-locates an element. It is called afresh for every
// attempt and never memoised: caching a resolved element across a
// re-render is exactly what produces stale references.
type ElementRef func(ctx context.Context) (Element, error)

// ElementHandle stands in for one element. Every operation resolves the
// element through its [ElementRef], waits for the readiness [Condition]
// the operation needs, then runs it, retrying the whole sequence when the
// element went stale. An intercepted click gets one script-click fallback.
//
// A handle holds no resolved element between calls and is safe to keep
// across page updates. It is meant for a single caller at a time.
type ElementHandle struct {
	ref ElementRef
	s   settings
}

var _ Element = (*ElementHandle)(nil)

// NewElement returns a resilient handle over ref. Without options it uses
// [DefaultElementConfig].
func NewElement(ref ElementRef, opts ...Option) *ElementHandle {
	return newElement(ref, newSettings(DefaultElementConfig(), opts))
}

func newElement(ref ElementRef, s settings) *ElementHandle {
	return &ElementHandle{ref: ref, s: s}
}

// Config returns the retry configuration of the handle.
func (h *ElementHandle) Config() RetryConfig { return h.s.retry }

// Unwrap resolves the element once and returns the raw value, without
// waiting or retrying. Gesture builders and script calls need it.
//
//nolint:ireturn // raw element
func (h *ElementHandle) Unwrap(ctx context.Context) (Element, error) {
	return h.ref(ctx)
}

// WrappedDriver returns the driver of the currently resolved element,
// without waiting or retrying.
//
//nolint:ireturn // interface by design
func (h *ElementHandle) WrappedDriver(ctx context.Context) (Driver, error) {
	el, err := h.ref(ctx)
	if err != nil {
		return nil, wrapOp(OpWrappedDriver, err)
	}

	drv, err := el.WrappedDriver(ctx)
	if err != nil {
		return nil, wrapOp(OpWrappedDriver, err)
	}

	return drv, nil
}

// FindElement returns a handle on the first child matching by. Nothing is
// located until the child is used; the child re-resolves this element
// first on every attempt and inherits its configuration.
//
//nolint:ireturn // returns *ElementHandle as Element
func (h *ElementHandle) FindElement(_ context.Context, by By) (Element, error) {
	parent := h.ref

	return newElement(func(ctx context.Context) (Element, error) {
		el, err := parent(ctx)
		if err != nil {
			return nil, err
		}

		return el.FindElement(ctx, by) //nolint:wrapcheck // classified by caller
	}, h.s), nil
}

// FindElements returns a [LazyElementList] over the children matching by.
//
//nolint:ireturn // returns *LazyElementList as ElementList
func (h *ElementHandle) FindElements(_ context.Context, by By) (ElementList, error) {
	parent := h.ref

	return newLazyList(func(ctx context.Context) ([]Element, error) {
		el, err := parent(ctx)
		if err != nil {
			return nil, err
		}

		children, err := el.FindElements(ctx, by)
		if err != nil {
			return nil, err
		}

		return children.All(ctx)
	}, h.s), nil
}

// Click clicks the element once it is clickable. When another node
// intercepts the click, the element is clicked once through a script.
func (h *ElementHandle) Click(ctx context.Context) error {
	_, err := invoke(ctx, h, OpClick, func(ctx context.Context, el Element) (struct{}, error) {
		return struct{}{}, el.Click(ctx)
	})

	return err
}

// SendKeys types text into the element once it is clickable.
func (h *ElementHandle) SendKeys(ctx context.Context, text string) error {
	_, err := invoke(ctx, h, OpSendKeys, func(ctx context.Context, el Element) (struct{}, error) {
		return struct{}{}, el.SendKeys(ctx, text)
	})

	return err
}

// Clear empties the element once it is clickable.
func (h *ElementHandle) Clear(ctx context.Context) error {
	_, err := invoke(ctx, h, OpClear, func(ctx context.Context, el Element) (struct{}, error) {
		return struct{}{}, el.Clear(ctx)
	})

	return err
}

// Text returns the rendered text of the element.
func (h *ElementHandle) Text(ctx context.Context) (string, error) {
	return invoke(ctx, h, OpText, func(ctx context.Context, el Element) (string, error) {
		return el.Text(ctx)
	})
}

// TagName returns the element's tag name.
func (h *ElementHandle) TagName(ctx context.Context) (string, error) {
	return invoke(ctx, h, OpTagName, func(ctx context.Context, el Element) (string, error) {
		return el.TagName(ctx)
	})
}

// Attribute returns the named attribute.
func (h *ElementHandle) Attribute(ctx context.Context, name string) (string, error) {
	return invoke(ctx, h, OpAttribute, func(ctx context.Context, el Element) (string, error) {
		return el.Attribute(ctx, name)
	})
}

// Property returns the named DOM property.
func (h *ElementHandle) Property(ctx context.Context, name string) (string, error) {
	return invoke(ctx, h, OpProperty, func(ctx context.Context, el Element) (string, error) {
		return el.Property(ctx, name)
	})
}

// CSSValue returns the computed value of a CSS property.
func (h *ElementHandle) CSSValue(ctx context.Context, name string) (string, error) {
	return invoke(ctx, h, OpCSSValue, func(ctx context.Context, el Element) (string, error) {
		return el.CSSValue(ctx, name)
	})
}

// Rect returns the element's position and size.
func (h *ElementHandle) Rect(ctx context.Context) (Rect, error) {
	return invoke(ctx, h, OpRect, func(ctx context.Context, el Element) (Rect, error) {
		return el.Rect(ctx)
	})
}

// IsDisplayed reports whether the element is displayed, after waiting for
// it to become visible.
func (h *ElementHandle) IsDisplayed(ctx context.Context) (bool, error) {
	return invoke(ctx, h, OpIsDisplayed, func(ctx context.Context, el Element) (bool, error) {
		return el.IsDisplayed(ctx)
	})
}

// IsEnabled reports whether the element is enabled.
func (h *ElementHandle) IsEnabled(ctx context.Context) (bool, error) {
	return invoke(ctx, h, OpIsEnabled, func(ctx context.Context, el Element) (bool, error) {
		return el.IsEnabled(ctx)
	})
}

// IsSelected reports whether the element is selected or checked.
func (h *ElementHandle) IsSelected(ctx context.Context) (bool, error) {
	return invoke(ctx, h, OpIsSelected, func(ctx context.Context, el Element) (bool, error) {
		return el.IsSelected(ctx)
	})
}

// invoke runs act on the resolved element under the retry loop and names
// op in any surfaced error.
//
//nolint:ireturn // generic type parameter T, not an interface
func invoke[T any](
	ctx context.Context,
	h *ElementHandle,
	op Op,
	act func(context.Context, Element) (T, error),
) (T, error) {
	result, err := DoRetry(ctx, func(ctx context.Context) (T, error) {
		return runAttempt(ctx, h, op, act)
	}, h.retryParams(op))
	if err != nil {
		var zero T

		return zero, wrapOp(op, err)
	}

	return result, nil
}

// runAttempt is one resolve, wait, act pass.
//
//nolint:ireturn // generic type parameter T, not an interface
func runAttempt[T any](
	ctx context.Context,
	h *ElementHandle,
	op Op,
	act func(context.Context, Element) (T, error),
) (T, error) {
	var zero T

	el, err := h.await(ctx, op)
	if err != nil {
		return zero, err
	}

	result, err := act(ctx, el)
	if err != nil && op == OpClick && IsIntercepted(err) {
		return zero, h.clickFallback(ctx, el, err)
	}

	return result, err
}

// await waits for the readiness condition of op and returns the element
// to act on. A wait that gives up is logged and the element is resolved
// once more so that the operation still runs.
//
//nolint:ireturn // raw element
func (h *ElementHandle) await(ctx context.Context, op Op) (Element, error) {
	cond := op.Condition()
	fields := logrus.Fields{"op": op.String(), "condition": cond.String()}

	el, err := NewWaitPolicy(h.s.clock).Await(ctx, h.ref, cond)
	if err == nil {
		h.s.logf(logrus.DebugLevel, fields, "element is %s", cond)

		return el, nil
	}

	if errors.Is(err, ErrConditionTimeout) {
		h.s.logf(logrus.WarnLevel, fields, "wait timed out, proceeding: %v", err)
		h.s.hooks.emitWaitTimeout(op, cond)
	} else {
		h.s.logf(logrus.WarnLevel, fields, "wait failed, proceeding: %v", err)
	}

	return h.ref(ctx)
}

func (h *ElementHandle) retryParams(op Op) RetryParams {
	return RetryParams{
		Logger: h.s.logger,
		Hooks:  &h.s.hooks,
		Clock:  h.s.clock,
		Config: h.s.retry,
		Op:     op,
	}
}

// Unwrap returns the raw element behind el, resolving handles once and
// without waiting. Non-handle elements are returned unchanged.
//
//nolint:ireturn // raw element
func Unwrap(ctx context.Context, el Element) (Element, error) {
	for {
		h, ok := el.(*ElementHandle)
		if !ok {
			return el, nil
		}

		raw, err := h.Unwrap(ctx)
		if err != nil {
			return nil, err
		}

		el = raw
	}
}

// IsElementHandle reports whether el is a resilient handle.
func IsElementHandle(el Element) bool {
	_, ok := el.(*ElementHandle)

	return ok
}
