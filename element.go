package steady

import (
	"context"
	"fmt"
	"reflect"
)

type (
	// By is a W3C locator: a strategy name and a selector value. The
	// decorators never interpret it; they only hand it back to the search
	// root that produced the parent element.
	By struct {
		Using string `json:"using"`
		Value string `json:"value"`
	}

	// Rect is an element's position and rendered size in CSS pixels.
	Rect struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}

	// SearchContext is anything elements can be located from: a driver or
	// a parent element.
	SearchContext interface {
		FindElement(ctx context.Context, by By) (Element, error)
		FindElements(ctx context.Context, by By) (ElementList, error)
	}

	// Element is the operation surface of a single element. Raw adapter
	// elements and [ElementHandle] both implement it.
	Element interface {
		SearchContext

		Click(ctx context.Context) error
		SendKeys(ctx context.Context, text string) error
		Clear(ctx context.Context) error

		Text(ctx context.Context) (string, error)
		TagName(ctx context.Context) (string, error)
		Attribute(ctx context.Context, name string) (string, error)
		Property(ctx context.Context, name string) (string, error)
		CSSValue(ctx context.Context, name string) (string, error)
		Rect(ctx context.Context) (Rect, error)

		IsDisplayed(ctx context.Context) (bool, error)
		IsEnabled(ctx context.Context) (bool, error)
		IsSelected(ctx context.Context) (bool, error)

		// WrappedDriver returns the driver the element belongs to.
		WrappedDriver(ctx context.Context) (Driver, error)
	}

	// Driver is the operation surface of an automation session.
	Driver interface {
		SearchContext

		Navigate(ctx context.Context, url string) error
		CurrentURL(ctx context.Context) (string, error)
		Title(ctx context.Context) (string, error)
		PageSource(ctx context.Context) (string, error)
		// ExecuteScript runs a W3C-style script body; element arguments
		// are reachable as arguments[i].
		ExecuteScript(ctx context.Context, script string, args ...any) (any, error)
		Screenshot(ctx context.Context) ([]byte, error)
		Quit(ctx context.Context) error
	}

	// ElementList is an ordered collection of elements. Raw adapters
	// return [Elements]; resilient search roots return [*LazyElementList].
	ElementList interface {
		Len(ctx context.Context) (int, error)
		Get(ctx context.Context, index int) (Element, error)
		All(ctx context.Context) ([]Element, error)
	}

	// Identifier is implemented by raw elements that carry a stable
	// back-end reference. It is used to compare elements.
	Identifier interface {
		ID() string
	}

	// Matcher is implemented by raw elements whose back-end can tell two
	// references to the same node apart from two distinct nodes, when no
	// stable identifier exists.
	Matcher interface {
		SameAs(other Element) bool
	}

	// Elements is a plain snapshot of located elements.
	Elements []Element
)

// Standard W3C locator strategies.
const (
	UsingCSS             = "css selector"
	UsingXPath           = "xpath"
	UsingLinkText        = "link text"
	UsingPartialLinkText = "partial link text"
	UsingTagName         = "tag name"
)

// ByCSS locates elements by CSS selector.
func ByCSS(selector string) By { return By{Using: UsingCSS, Value: selector} }

// ByXPath locates elements by XPath expression.
func ByXPath(expr string) By { return By{Using: UsingXPath, Value: expr} }

// ByLinkText locates anchors by their exact visible text.
func ByLinkText(text string) By { return By{Using: UsingLinkText, Value: text} }

// ByPartialLinkText locates anchors whose visible text contains text.
func ByPartialLinkText(text string) By {
	return By{Using: UsingPartialLinkText, Value: text}
}

// ByTagName locates elements by tag name.
func ByTagName(name string) By { return By{Using: UsingTagName, Value: name} }

func (b By) String() string { return b.Using + "=" + b.Value }

// Len returns the number of elements in the snapshot.
func (es Elements) Len(context.Context) (int, error) { return len(es), nil }

// Get returns the element at index.
//
//nolint:ireturn // interface by design
func (es Elements) Get(_ context.Context, index int) (Element, error) {
	if index < 0 || index >= len(es) {
		return nil, &IndexError{Index: index, Len: len(es)}
	}

	return es[index], nil
}

// All returns a copy of the snapshot.
func (es Elements) All(context.Context) ([]Element, error) {
	out := make([]Element, len(es))
	copy(out, es)

	return out, nil
}

// sameElement compares two raw elements by back-end identity when both
// expose one, then through [Matcher], otherwise by interface equality.
// Values of distinct or uncomparable dynamic types are never equal.
func sameElement(a, b Element) bool {
	ia, okA := a.(Identifier)
	ib, okB := b.(Identifier)

	if okA && okB {
		return ia.ID() == ib.ID()
	}

	if m, ok := a.(Matcher); ok {
		return m.SameAs(b)
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}

	return a == b
}

func checkRange(from, to, n int) error {
	if from < 0 || to > n || from > to {
		return fmt.Errorf("range [%d:%d] out of bounds for length %d", from, to, n)
	}

	return nil
}
