package pwx

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/byte4ever/steady"
)

// Element wraps a Playwright element handle.
type Element struct {
	driver *Driver
	h      playwright.ElementHandle
}

// Handle returns the underlying element handle.
func (e *Element) Handle() playwright.ElementHandle { return e.h }

func (e *Element) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := selector(by)
	if err != nil {
		return nil, err
	}

	h, err := e.h.QuerySelector(sel)
	if err != nil {
		return nil, classify(err)
	}

	if h == nil {
		return nil, fmt.Errorf("%w: %s", steady.ErrNoSuchElement, by)
	}

	return &Element{driver: e.driver, h: h}, nil
}

func (e *Element) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := selector(by)
	if err != nil {
		return nil, err
	}

	hs, err := e.h.QuerySelectorAll(sel)
	if err != nil {
		return nil, classify(err)
	}

	return e.driver.wrap(hs), nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return classify(e.h.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return classify(e.h.Type(text, playwright.ElementHandleTypeOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return classify(e.h.Fill("", playwright.ElementHandleFillOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := e.h.InnerText()

	return text, classify(err)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.evalString(ctx, `el => el.tagName.toLowerCase()`, nil)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v, err := e.h.GetAttribute(name)

	return v, classify(err)
}

func (e *Element) Property(ctx context.Context, name string) (string, error) {
	return e.evalString(ctx, `(el, n) => el[n] == null ? "" : String(el[n])`, name)
}

func (e *Element) CSSValue(ctx context.Context, name string) (string, error) {
	return e.evalString(ctx, `(el, n) => getComputedStyle(el).getPropertyValue(n)`, name)
}

func (e *Element) Rect(ctx context.Context) (steady.Rect, error) {
	if err := ctx.Err(); err != nil {
		return steady.Rect{}, err
	}

	box, err := e.h.BoundingBox()
	if err != nil {
		return steady.Rect{}, classify(err)
	}

	if box == nil {
		return steady.Rect{}, nil
	}

	return steady.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := e.h.IsVisible()

	return ok, classify(err)
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := e.h.IsEnabled()

	return ok, classify(err)
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	v, err := e.evalString(ctx, `el => String(!!(el.checked || el.selected))`, nil)
	if err != nil {
		return false, err
	}

	return v == "true", nil
}

func (e *Element) WrappedDriver(context.Context) (steady.Driver, error) {
	return e.driver, nil
}

// SameAs reports whether other wraps the same DOM node. Every query
// builds fresh handles, so identity is settled in the page.
func (e *Element) SameAs(other steady.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}

	if o == e || o.h == e.h {
		return true
	}

	v, err := e.h.Evaluate(`(el, other) => el === other`, o.h)
	if err != nil {
		return false
	}

	same, ok := v.(bool)

	return ok && same
}

func (e *Element) evalString(ctx context.Context, js string, arg any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v, err := e.h.Evaluate(js, arg)
	if err != nil {
		return "", classify(err)
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), nil
	}

	return s, nil
}
