package steady

import "context"

// DriverHandle wraps a [Driver] so that every element it hands out is
// resilient. FindElement returns an [*ElementHandle] and FindElements a
// [*LazyElementList]; every other method is the wrapped driver's own, with
// its errors untouched.
//
// Capabilities of the concrete driver beyond [Driver] remain reachable
// through [DriverHandle.Unwrap] or [UnwrapDriver].
type DriverHandle struct {
	Driver

	s settings
}

var _ Driver = (*DriverHandle)(nil)

// WrapDriver returns a resilient view over d. Without options it uses
// [DefaultDriverConfig]. Wrapping a handle wraps its inner driver again
// rather than stacking decorators.
func WrapDriver(d Driver, opts ...Option) (*DriverHandle, error) {
	if d == nil {
		return nil, ErrNilDriver
	}

	return &DriverHandle{
		Driver: UnwrapDriver(d),
		s:      newSettings(DefaultDriverConfig(), opts),
	}, nil
}

// Config returns the retry configuration handed down to elements.
func (d *DriverHandle) Config() RetryConfig { return d.s.retry }

// Unwrap returns the wrapped driver.
//
//nolint:ireturn // interface by design
func (d *DriverHandle) Unwrap() Driver { return d.Driver }

// FindElement returns a handle whose every resolution runs
// driver.FindElement(by). Nothing is located until the handle is used.
//
//nolint:ireturn // returns *ElementHandle as Element
func (d *DriverHandle) FindElement(_ context.Context, by By) (Element, error) {
	return d.Element(by), nil
}

// FindElements returns a lazy list whose every query runs
// driver.FindElements(by).
//
//nolint:ireturn // returns *LazyElementList as ElementList
func (d *DriverHandle) FindElements(_ context.Context, by By) (ElementList, error) {
	return d.Elements(by), nil
}

// Element is FindElement with the concrete return type.
func (d *DriverHandle) Element(by By) *ElementHandle {
	inner := d.Driver

	return newElement(func(ctx context.Context) (Element, error) {
		return inner.FindElement(ctx, by) //nolint:wrapcheck // classified by caller
	}, d.s)
}

// Elements is FindElements with the concrete return type.
func (d *DriverHandle) Elements(by By) *LazyElementList {
	inner := d.Driver

	return newLazyList(func(ctx context.Context) ([]Element, error) {
		found, err := inner.FindElements(ctx, by)
		if err != nil {
			return nil, err
		}

		return found.All(ctx)
	}, d.s)
}

// UnwrapDriver returns the driver behind d, or d itself when it is not a
// [*DriverHandle].
//
//nolint:ireturn // interface by design
func UnwrapDriver(d Driver) Driver {
	for {
		h, ok := d.(*DriverHandle)
		if !ok {
			return d
		}

		d = h.Driver
	}
}

// IsDriverHandle reports whether d is a resilient driver wrapper.
func IsDriverHandle(d Driver) bool {
	_, ok := d.(*DriverHandle)

	return ok
}
