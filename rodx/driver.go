package rodx

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/byte4ever/steady"
)

// Driver wraps a rod page. It implements [steady.Driver].
type Driver struct {
	page *rod.Page
}

var _ steady.Driver = (*Driver)(nil)

// NewDriver returns a driver over page.
func NewDriver(page *rod.Page) *Driver {
	return &Driver{page: page}
}

// Open creates a new page in browser and navigates it to url.
func Open(browser *rod.Browser, url string) (*Driver, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("rodx: open page: %w", err)
	}

	return NewDriver(page), nil
}

// OpenStealth is Open with the stealth evasions injected before the first
// navigation.
func OpenStealth(browser *rod.Browser, url string) (*Driver, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("rodx: open stealth page: %w", err)
	}

	if url != "" {
		if err := page.Navigate(url); err != nil {
			return nil, fmt.Errorf("rodx: navigate: %w", err)
		}
	}

	return NewDriver(page), nil
}

// Page returns the underlying rod page.
func (d *Driver) Page() *rod.Page { return d.page }

// finder returns a page bound to ctx whose lookups fail at once instead
// of polling; polling is the handles' job.
func (d *Driver) finder(ctx context.Context) *rod.Page {
	return d.page.Context(ctx).Sleeper(rod.NotFoundSleeper)
}

func (d *Driver) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	sel, xpath, err := translate(by)
	if err != nil {
		return nil, err
	}

	var el *rod.Element

	if xpath {
		el, err = d.finder(ctx).ElementX(sel)
	} else {
		el, err = d.finder(ctx).Element(sel)
	}

	if err != nil {
		return nil, classify(err)
	}

	return &Element{driver: d, el: el}, nil
}

func (d *Driver) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	sel, xpath, err := translate(by)
	if err != nil {
		return nil, err
	}

	var els rod.Elements

	if xpath {
		els, err = d.finder(ctx).ElementsX(sel)
	} else {
		els, err = d.finder(ctx).Elements(sel)
	}

	if err != nil {
		return nil, classify(err)
	}

	return d.wrap(els), nil
}

func (d *Driver) wrap(els rod.Elements) steady.Elements {
	out := make(steady.Elements, len(els))
	for i, el := range els {
		out[i] = &Element{driver: d, el: el}
	}

	return out
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.page.Context(ctx).Navigate(url); err != nil {
		return classify(err)
	}

	return classify(d.page.Context(ctx).WaitLoad())
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", classify(err)
	}

	return info.URL, nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", classify(err)
	}

	return info.Title, nil
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	html, err := d.page.Context(ctx).HTML()

	return html, classify(err)
}

// ExecuteScript runs a W3C style script body. Element arguments, raw or
// wrapped in handles, are passed as remote object references so the body
// can use arguments[i] on them. Results are returned by value.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
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

		rel, ok := raw.(*Element)
		if !ok {
			return nil, fmt.Errorf("rodx: script argument %T is not a rod element", raw)
		}

		params[i] = rel.el.Object
	}

	res, err := d.page.Context(ctx).Evaluate(
		rod.Eval(wrapScript(script), params...),
	)
	if err != nil {
		return nil, classify(err)
	}

	return res.Value.Val(), nil
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	png, err := d.page.Context(ctx).Screenshot(false, nil)

	return png, classify(err)
}

func (d *Driver) Quit(ctx context.Context) error {
	return classify(d.page.Context(ctx).Close())
}

// wrapScript turns a script body into a function declaration so that
// arguments[i] resolves to the call parameters.
func wrapScript(body string) string {
	return "function() {\n" + body + "\n}"
}

// translate returns the rod selector for by and whether it is XPath.
func translate(by steady.By) (string, bool, error) {
	switch by.Using {
	case steady.UsingCSS:
		return by.Value, false, nil
	case steady.UsingTagName:
		return by.Value, false, nil
	case steady.UsingXPath:
		return by.Value, true, nil
	case steady.UsingLinkText:
		return "//a[normalize-space(.)=" + strconv.Quote(by.Value) + "]", true, nil
	case steady.UsingPartialLinkText:
		return "//a[contains(normalize-space(.), " + strconv.Quote(by.Value) + ")]", true, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnsupportedLocator, by.Using)
	}
}
