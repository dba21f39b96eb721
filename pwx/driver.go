package pwx

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/byte4ever/steady"
)

// DefaultActionTimeout bounds Playwright's own actionability checks, in
// milliseconds. The steady handles do their own waiting.
const DefaultActionTimeout = 2000

// scriptShim applies a W3C style body to the argument array.
const scriptShim = `(args) => (function() {
%s
}).apply(null, args)`

// Driver wraps a Playwright page. It implements [steady.Driver].
type Driver struct {
	page    playwright.Page
	timeout float64
}

var _ steady.Driver = (*Driver)(nil)

// Option configures a [Driver].
type Option func(*Driver)

// WithActionTimeout sets the Playwright actionability timeout in
// milliseconds.
func WithActionTimeout(ms float64) Option {
	return func(d *Driver) { d.timeout = ms }
}

// NewDriver returns a driver over page.
func NewDriver(page playwright.Page, opts ...Option) *Driver {
	d := &Driver{page: page, timeout: DefaultActionTimeout}

	for _, o := range opts {
		o(d)
	}

	return d
}

// Page returns the underlying Playwright page.
func (d *Driver) Page() playwright.Page { return d.page }

func (d *Driver) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := selector(by)
	if err != nil {
		return nil, err
	}

	h, err := d.page.QuerySelector(sel)
	if err != nil {
		return nil, classify(err)
	}

	if h == nil {
		return nil, fmt.Errorf("%w: %s", steady.ErrNoSuchElement, by)
	}

	return &Element{driver: d, h: h}, nil
}

func (d *Driver) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := selector(by)
	if err != nil {
		return nil, err
	}

	hs, err := d.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, classify(err)
	}

	return d.wrap(hs), nil
}

func (d *Driver) wrap(hs []playwright.ElementHandle) steady.Elements {
	out := make(steady.Elements, len(hs))
	for i, h := range hs {
		out[i] = &Element{driver: d, h: h}
	}

	return out
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := d.page.Goto(url)

	return classify(err)
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return d.page.URL(), nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title, err := d.page.Title()

	return title, classify(err)
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := d.page.Content()

	return html, classify(err)
}

// ExecuteScript runs a W3C style script body with arguments[i] bound to
// args. Elements, raw or wrapped in handles, are passed as element handles.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := make([]any, len(args))

	for i, a := range args {
		el, ok := a.(steady.Element)
		if !ok {
			params[i] = a

			continue
		}

		raw, err := steady.Unwrap(ctx, el)
		if err != nil {
			return nil, err
		}

		pel, ok := raw.(*Element)
		if !ok {
			return nil, fmt.Errorf("pwx: script argument %T is not a playwright element", raw)
		}

		params[i] = pel.h
	}

	res, err := d.page.Evaluate(fmt.Sprintf(scriptShim, script), params)

	return res, classify(err)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := d.page.Screenshot()

	return png, classify(err)
}

func (d *Driver) Quit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return classify(d.page.Close())
}

// selector maps a locator onto a Playwright selector string.
func selector(by steady.By) (string, error) {
	switch by.Using {
	case steady.UsingCSS, steady.UsingTagName:
		return "css=" + by.Value, nil
	case steady.UsingXPath:
		return "xpath=" + by.Value, nil
	case steady.UsingLinkText:
		return "a >> text=\"" + by.Value + "\"", nil
	case steady.UsingPartialLinkText:
		return "a >> text=" + by.Value, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocator, by.Using)
	}
}
