package rodx

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/byte4ever/steady"
)

// Element wraps a rod element. It implements [steady.Element] and
// [steady.Identifier].
type Element struct {
	driver *Driver
	el     *rod.Element
}

// ID returns the remote object id.
func (e *Element) ID() string { return string(e.el.Object.ObjectID) }

// Rod returns the underlying rod element.
func (e *Element) Rod() *rod.Element { return e.el }

func (e *Element) with(ctx context.Context) *rod.Element {
	return e.el.Context(ctx)
}

func (e *Element) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	sel, xpath, err := translate(by)
	if err != nil {
		return nil, err
	}

	var child *rod.Element

	finder := e.with(ctx).Sleeper(rod.NotFoundSleeper)
	if xpath {
		child, err = finder.ElementX(sel)
	} else {
		child, err = finder.Element(sel)
	}

	if err != nil {
		return nil, classify(err)
	}

	return &Element{driver: e.driver, el: child}, nil
}

func (e *Element) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	sel, xpath, err := translate(by)
	if err != nil {
		return nil, err
	}

	var children rod.Elements

	if xpath {
		children, err = e.with(ctx).ElementsX(sel)
	} else {
		children, err = e.with(ctx).Elements(sel)
	}

	if err != nil {
		return nil, classify(err)
	}

	return e.driver.wrap(children), nil
}

// Click checks that the element is the hit target before clicking, so an
// overlay surfaces as a click interception instead of a silent miss.
func (e *Element) Click(ctx context.Context) error {
	el := e.with(ctx)

	if _, err := el.Interactable(); err != nil {
		return classify(err)
	}

	return classify(el.Click(proto.InputMouseButtonLeft, 1))
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	return classify(e.with(ctx).Input(text))
}

func (e *Element) Clear(ctx context.Context) error {
	el := e.with(ctx)

	if err := el.SelectAllText(); err != nil {
		return classify(err)
	}

	if err := el.Type(input.Backspace); err != nil {
		return classify(err)
	}

	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	text, err := e.with(ctx).Text()

	return text, classify(err)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.evalString(ctx, `() => this.tagName.toLowerCase()`)
}

// Attribute returns the attribute value, or "" when it is absent.
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.with(ctx).Attribute(name)
	if err != nil {
		return "", classify(err)
	}

	if v == nil {
		return "", nil
	}

	return *v, nil
}

func (e *Element) Property(ctx context.Context, name string) (string, error) {
	v, err := e.with(ctx).Property(name)
	if err != nil {
		return "", classify(err)
	}

	if v.Nil() {
		return "", nil
	}

	return v.String(), nil
}

func (e *Element) CSSValue(ctx context.Context, name string) (string, error) {
	return e.evalString(ctx, `(n) => getComputedStyle(this).getPropertyValue(n)`, name)
}

func (e *Element) Rect(ctx context.Context) (steady.Rect, error) {
	shape, err := e.with(ctx).Shape()
	if err != nil {
		return steady.Rect{}, classify(err)
	}

	box := shape.Box()
	if box == nil {
		return steady.Rect{}, nil
	}

	return steady.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	ok, err := e.with(ctx).Visible()

	return ok, classify(err)
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.evalBool(ctx, `() => !this.disabled`)
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	return e.evalBool(ctx, `() => !!(this.checked || this.selected)`)
}

func (e *Element) WrappedDriver(context.Context) (steady.Driver, error) {
	return e.driver, nil
}

func (e *Element) evalString(ctx context.Context, js string, args ...any) (string, error) {
	res, err := e.with(ctx).Eval(js, args...)
	if err != nil {
		return "", classify(err)
	}

	return res.Value.Str(), nil
}

func (e *Element) evalBool(ctx context.Context, js string) (bool, error) {
	res, err := e.with(ctx).Eval(js)
	if err != nil {
		return false, classify(err)
	}

	if res.Value.Nil() {
		return false, fmt.Errorf("rodx: %s returned null", js)
	}

	return res.Value.Bool(), nil
}
