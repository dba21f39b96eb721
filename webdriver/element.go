package webdriver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/byte4ever/steady"
)

// Element is a web element reference inside a [Session]. It implements
// [steady.Element] and [steady.Identifier].
type Element struct {
	session *Session
	id      string
}

// ID returns the web element reference.
func (e *Element) ID() string { return e.id }

func (e *Element) path(p string) string {
	return e.session.path("/element/" + url.PathEscape(e.id) + p)
}

// FindElement searches below e.
func (e *Element) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	return e.session.findElement(ctx, e.path("/element"), by)
}

// FindElements searches below e.
func (e *Element) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	return e.session.findElements(ctx, e.path("/elements"), by)
}

func (e *Element) Click(ctx context.Context) error {
	return e.session.do(ctx, http.MethodPost, e.path("/click"), struct{}{}, nil)
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	return e.session.do(ctx, http.MethodPost, e.path("/value"), map[string]string{"text": text}, nil)
}

func (e *Element) Clear(ctx context.Context) error {
	return e.session.do(ctx, http.MethodPost, e.path("/clear"), struct{}{}, nil)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return getString(ctx, e.session, e.path("/text"))
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return getString(ctx, e.session, e.path("/name"))
}

// Attribute returns the named attribute, or "" when it is absent.
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	return e.nullableString(ctx, e.path("/attribute/"+url.PathEscape(name)))
}

// Property returns the named DOM property rendered as a string, or ""
// when it is null.
func (e *Element) Property(ctx context.Context, name string) (string, error) {
	return e.nullableString(ctx, e.path("/property/"+url.PathEscape(name)))
}

func (e *Element) CSSValue(ctx context.Context, name string) (string, error) {
	return getString(ctx, e.session, e.path("/css/"+url.PathEscape(name)))
}

func (e *Element) Rect(ctx context.Context) (steady.Rect, error) {
	var r steady.Rect

	if err := e.session.do(ctx, http.MethodGet, e.path("/rect"), nil, &r); err != nil {
		return steady.Rect{}, err
	}

	return r, nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.getBool(ctx, e.path("/displayed"))
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.getBool(ctx, e.path("/enabled"))
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	return e.getBool(ctx, e.path("/selected"))
}

// WrappedDriver returns the owning session.
func (e *Element) WrappedDriver(context.Context) (steady.Driver, error) {
	return e.session, nil
}

func (e *Element) getBool(ctx context.Context, path string) (bool, error) {
	var v bool

	if err := e.session.do(ctx, http.MethodGet, path, nil, &v); err != nil {
		return false, err
	}

	return v, nil
}

func (e *Element) nullableString(ctx context.Context, path string) (string, error) {
	var v any

	if err := e.session.do(ctx, http.MethodGet, path, nil, &v); err != nil {
		return "", err
	}

	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return fmt.Sprint(t), nil
	}
}
