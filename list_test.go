package steady

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeCollection is a list whose content can change between queries.
type fakeCollection struct {
	items   []Element
	queries int
	grow    func(queries int) []Element
}

func (c *fakeCollection) query(context.Context) ([]Element, error) {
	c.queries++

	if c.grow != nil {
		c.items = c.grow(c.queries)
	}

	return append([]Element(nil), c.items...), nil
}

func fakeItems(n int) []Element {
	d := &fakeDriver{}
	out := make([]Element, n)

	for i := range out {
		out[i] = newFakeElement(string(rune('a'+i)), d)
	}

	return out
}

// ---------------------------------------------------------------------------
// Read-only invariant
// ---------------------------------------------------------------------------

func TestLazyListIsReadOnly(t *testing.T) {
	for _, n := range []int{0, 3} {
		coll := &fakeCollection{items: fakeItems(n)}
		l := NewLazyList(coll.query, testOptions(newAutoClock())...)
		el := newFakeElement("x", nil)

		mutators := map[string]error{
			"Add":       l.Add(el),
			"Insert":    l.Insert(0, el),
			"Set":       l.Set(0, el),
			"Remove":    l.Remove(el),
			"RemoveAt":  l.RemoveAt(0),
			"Clear":     l.Clear(),
			"AddAll":    l.AddAll([]Element{el}),
			"RemoveAll": l.RemoveAll([]Element{el}),
			"RetainAll": l.RetainAll(nil),
		}

		for name, err := range mutators {
			require.ErrorIs(t, err, ErrUnsupportedMutation, "%s on list of %d", name, n)
		}

		cur := l.Cursor(0)
		require.ErrorIs(t, cur.Add(el), ErrUnsupportedMutation)
		require.ErrorIs(t, cur.Set(el), ErrUnsupportedMutation)
		require.ErrorIs(t, cur.Remove(), ErrUnsupportedMutation)

		got, err := l.Len(context.Background())
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

// ---------------------------------------------------------------------------
// Index waiting
// ---------------------------------------------------------------------------

func TestLazyListGetWaitsForGrowth(t *testing.T) {
	clock := newAutoClock()
	start := clock.Now()
	items := fakeItems(3)

	coll := &fakeCollection{grow: func(int) []Element {
		if clock.Since(start) >= 3*time.Second {
			return items
		}

		return items[:2]
	}}

	var waited time.Duration

	l := NewLazyList(coll.query, testOptions(clock, WithHooks(Hooks{
		OnIndexWait: func(index int, d time.Duration) {
			require.Equal(t, 2, index)
			waited = d
		},
	}))...)

	el, err := l.Get(context.Background(), 2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, waited, 3*time.Second)
	require.Less(t, waited, WaitTimeout)

	text, err := el.Text(context.Background())
	require.NoError(t, err)
	require.Equal(t, "c", text)
}

func TestLazyListGetIsIdempotent(t *testing.T) {
	clock := newAutoClock()
	coll := &fakeCollection{items: fakeItems(2)}
	l := NewLazyList(coll.query, testOptions(clock)...)
	ctx := context.Background()

	first, err := l.Get(ctx, 1)
	require.NoError(t, err)

	second, err := l.Get(ctx, 1)
	require.NoError(t, err)

	for _, el := range []Element{first, second} {
		text, err := el.Text(ctx)
		require.NoError(t, err)
		require.Equal(t, "b", text)
	}

	require.Zero(t, clock.slept(0))
}

func TestLazyListGetTimesOut(t *testing.T) {
	clock := newAutoClock()
	coll := &fakeCollection{items: fakeItems(1)}
	l := NewLazyList(coll.query, testOptions(clock)...)

	_, err := l.Get(context.Background(), 4)

	require.ErrorIs(t, err, ErrIndexUnavailable)

	var ie *IndexError
	require.True(t, errors.As(err, &ie))
	require.Equal(t, 4, ie.Index)
	require.Equal(t, 1, ie.Len)
	require.GreaterOrEqual(t, clock.slept(IndexPollInterval), WaitTimeout)
}

func TestLazyListGetNegativeIndex(t *testing.T) {
	coll := &fakeCollection{items: fakeItems(1)}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)

	_, err := l.Get(context.Background(), -1)

	require.ErrorIs(t, err, ErrIndexUnavailable)
	require.ErrorContains(t, err, "negative index -1")
	require.NotContains(t, err.Error(), "after waiting")
	require.Zero(t, coll.queries)
}

func TestLazyListGetWaitsForResponsiveElement(t *testing.T) {
	clock := newAutoClock()
	items := fakeItems(1)
	items[0].(*fakeElement).failNext("TagName", ErrStaleElement, ErrStaleElement)

	coll := &fakeCollection{items: items}
	l := NewLazyList(coll.query, testOptions(clock)...)

	_, err := l.Get(context.Background(), 0)

	require.NoError(t, err)
	require.Equal(t, 2*IndexPollInterval, clock.slept(0))
}

func TestLazyListHandleFollowsPosition(t *testing.T) {
	items := fakeItems(3)
	coll := &fakeCollection{items: items}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	el, err := l.Get(ctx, 1)
	require.NoError(t, err)

	// The page re-renders in reverse order; the handle reads position 1 anew.
	coll.items = []Element{items[2], items[0], items[1]}

	text, err := el.Text(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", text)
}

func TestLazyListHandleLosesPosition(t *testing.T) {
	items := fakeItems(2)
	coll := &fakeCollection{items: items}
	l := NewLazyList(coll.query, testOptions(newAutoClock(), WithRetry(1, 0))...)
	ctx := context.Background()

	el, err := l.Get(ctx, 1)
	require.NoError(t, err)

	coll.items = items[:1]

	_, err = el.Text(ctx)
	require.ErrorIs(t, err, ErrNoSuchElement)
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestLazyListSearch(t *testing.T) {
	items := fakeItems(3)
	coll := &fakeCollection{items: []Element{items[0], items[1], items[0]}}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	first, err := l.IndexOf(ctx, items[0])
	require.NoError(t, err)
	require.Equal(t, 0, first)

	last, err := l.LastIndexOf(ctx, NewElement(staticRef(items[0], nil)))
	require.NoError(t, err)
	require.Equal(t, 2, last)

	missing, err := l.IndexOf(ctx, items[2])
	require.NoError(t, err)
	require.Equal(t, -1, missing)

	ok, err := l.Contains(ctx, items[1])
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.ContainsAll(ctx, []Element{items[0], items[1]})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.ContainsAll(ctx, items)
	require.NoError(t, err)
	require.False(t, ok)

	// A different element value with the same back-end id is the same node.
	twin := newFakeElement(items[1].(*fakeElement).id, nil)
	ok, err = l.Contains(ctx, twin)
	require.NoError(t, err)
	require.True(t, ok)
}

// taggedElement is a value element that cannot be compared with ==.
type taggedElement struct {
	Element
	tags []string
}

// labelElement is a comparable value element.
type labelElement struct {
	Element
	label string
}

func TestLazyListSearchUncomparableElements(t *testing.T) {
	a := taggedElement{tags: []string{"a"}}
	b := taggedElement{tags: []string{"b"}}
	coll := &fakeCollection{items: []Element{a, labelElement{label: "x"}}}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	require.NotPanics(t, func() {
		ok, err := l.Contains(ctx, b)
		require.NoError(t, err)
		require.False(t, ok)

		i, err := l.IndexOf(ctx, a)
		require.NoError(t, err)
		require.Equal(t, -1, i)

		ok, err = l.ContainsAll(ctx, []Element{a, b})
		require.NoError(t, err)
		require.False(t, ok)
	})

	i, err := l.LastIndexOf(ctx, labelElement{label: "x"})
	require.NoError(t, err)
	require.Equal(t, 1, i)

	ok, err := l.Contains(ctx, labelElement{label: "y"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLazyListEmptyAndAll(t *testing.T) {
	coll := &fakeCollection{}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	empty, err := l.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	coll.items = fakeItems(2)

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 2, coll.queries)
}

func TestLazyListSub(t *testing.T) {
	items := fakeItems(4)
	coll := &fakeCollection{items: items}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	sub, err := l.Sub(ctx, 1, 3)
	require.NoError(t, err)
	require.Equal(t, items[1:3], sub)

	_, err = l.Sub(ctx, 3, 1)
	require.Error(t, err)

	_, err = l.Sub(ctx, 0, 5)
	require.ErrorContains(t, err, "out of bounds")
}

func TestLazyListQueryError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLazyList(func(context.Context) ([]Element, error) {
		return nil, boom
	}, testOptions(newAutoClock())...)

	_, err := l.Len(context.Background())
	require.ErrorIs(t, err, boom)

	var oe *OpError
	require.True(t, errors.As(err, &oe))
	require.Equal(t, OpLen, oe.Op)
}

// ---------------------------------------------------------------------------
// Iteration
// ---------------------------------------------------------------------------

func TestLazyListEach(t *testing.T) {
	coll := &fakeCollection{items: fakeItems(3)}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()

	var texts []string

	err := l.Each(ctx, func(i int, el Element) error {
		text, err := el.Text(ctx)
		texts = append(texts, text)

		return err
	})

	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestLazyListEachStopsOnError(t *testing.T) {
	coll := &fakeCollection{items: fakeItems(3)}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	stop := errors.New("stop")
	visited := 0

	err := l.Each(context.Background(), func(i int, _ Element) error {
		visited++
		if i == 1 {
			return stop
		}

		return nil
	})

	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, visited)
}

func TestLazyListSeq(t *testing.T) {
	coll := &fakeCollection{items: fakeItems(3)}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)

	n := 0

	for el, err := range l.Seq(context.Background()) {
		require.NoError(t, err)
		require.NotNil(t, el)

		n++
		if n == 2 {
			break
		}
	}

	require.Equal(t, 2, n)
}

func TestCursorBothWays(t *testing.T) {
	coll := &fakeCollection{items: fakeItems(2)}
	l := NewLazyList(coll.query, testOptions(newAutoClock())...)
	ctx := context.Background()
	cur := l.Cursor(0)

	require.False(t, cur.HasPrevious())
	require.Equal(t, -1, cur.PreviousIndex())

	for range 2 {
		ok, err := cur.HasNext(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = cur.Next(ctx)
		require.NoError(t, err)
	}

	ok, err := cur.HasNext(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = cur.Next(ctx)
	require.ErrorIs(t, err, ErrNoSuchElement)

	require.Equal(t, 2, cur.NextIndex())

	el, err := cur.Previous(ctx)
	require.NoError(t, err)

	text, err := el.Text(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", text)
	require.Equal(t, 1, cur.NextIndex())
}
