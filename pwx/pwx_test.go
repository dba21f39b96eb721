package pwx

import (
	"context"
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/steady"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		msg   string
		class error
	}{
		{"elementHandle.click: Element is not attached to the DOM", steady.ErrStaleElement},
		{"Execution context was destroyed, most likely because of a navigation", steady.ErrStaleElement},
		{`<div class="overlay"></div> intercepts pointer events`, steady.ErrClickIntercepted},
		{"waiting for element to be visible, enabled and stable\n - element is not visible", steady.ErrNotInteractable},
		{"element is not enabled", steady.ErrNotInteractable},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			cause := errors.New(tc.msg)
			err := classify(cause)

			require.ErrorIs(t, err, tc.class)
			require.ErrorIs(t, err, cause)
		})
	}
}

func TestClassifyPassesThroughUnknown(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	require.Same(t, cause, classify(cause))
	require.NoError(t, classify(nil))
}

func TestSelector(t *testing.T) {
	cases := []struct {
		by   steady.By
		want string
	}{
		{steady.ByCSS("#a"), "css=#a"},
		{steady.ByTagName("li"), "css=li"},
		{steady.ByXPath("//li"), "xpath=//li"},
		{steady.ByLinkText("Home"), `a >> text="Home"`},
		{steady.ByPartialLinkText("Ho"), "a >> text=Ho"},
	}

	for _, tc := range cases {
		got, err := selector(tc.by)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := selector(steady.By{Using: "accessibility id", Value: "x"})
	require.ErrorIs(t, err, ErrUnsupportedLocator)
}

// nodeHandle stands in for a Playwright element handle pointing at a DOM
// node. Distinct handles may point at the same node.
type nodeHandle struct {
	playwright.ElementHandle
	node int
}

func (h *nodeHandle) Evaluate(_ string, arg ...any) (any, error) {
	other, ok := arg[0].(*nodeHandle)
	if !ok {
		return nil, errors.New("unexpected argument")
	}

	return h.node == other.node, nil
}

func TestElementSameAs(t *testing.T) {
	d := &Driver{}
	a := &Element{driver: d, h: &nodeHandle{node: 1}}
	b := &Element{driver: d, h: &nodeHandle{node: 1}}
	c := &Element{driver: d, h: &nodeHandle{node: 2}}

	require.True(t, a.SameAs(a))
	require.True(t, a.SameAs(b))
	require.False(t, a.SameAs(c))
	require.False(t, a.SameAs(nil))
}

func TestLazyListFindsFreshHandles(t *testing.T) {
	d := &Driver{}
	query := func(context.Context) ([]steady.Element, error) {
		return []steady.Element{
			&Element{driver: d, h: &nodeHandle{node: 1}},
			&Element{driver: d, h: &nodeHandle{node: 2}},
			&Element{driver: d, h: &nodeHandle{node: 1}},
		}, nil
	}

	l := steady.NewLazyList(query)
	target := &Element{driver: d, h: &nodeHandle{node: 1}}

	i, err := l.IndexOf(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, 0, i)

	i, err = l.LastIndexOf(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, 2, i)

	ok, err := l.Contains(context.Background(), &Element{driver: d, h: &nodeHandle{node: 3}})
	require.NoError(t, err)
	require.False(t, ok)
}
