package steady

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

var errStopIteration = errors.New("stop iteration")

// ElementsQuery re-runs the search behind a [LazyElementList]. Like
// [ElementRef] it is called afresh on every access.
type ElementsQuery func(ctx context.Context) ([]Element, error)

// LazyElementList is a read-only view over a collection the page may
// still be populating. Nothing is cached: every read runs the query again.
//
// Get waits for the requested index to appear and returns an
// [*ElementHandle] bound to that position. Iteration is built on Get, so
// it waits the same way. Every structural mutator fails with
// [ErrUnsupportedMutation].
type LazyElementList struct {
	query ElementsQuery
	s     settings
}

var _ ElementList = (*LazyElementList)(nil)

// NewLazyList returns a lazy list over query. Without options it uses
// [DefaultElementConfig] for the handles it produces.
func NewLazyList(query ElementsQuery, opts ...Option) *LazyElementList {
	return newLazyList(query, newSettings(DefaultElementConfig(), opts))
}

func newLazyList(query ElementsQuery, s settings) *LazyElementList {
	return &LazyElementList{query: query, s: s}
}

func (l *LazyElementList) fetch(ctx context.Context, op Op) ([]Element, error) {
	els, err := l.query(ctx)
	if err != nil {
		return nil, wrapOp(op, err)
	}

	return els, nil
}

// Len returns the size of a fresh query.
func (l *LazyElementList) Len(ctx context.Context) (int, error) {
	els, err := l.fetch(ctx, OpLen)

	return len(els), err
}

// IsEmpty reports whether a fresh query found nothing.
func (l *LazyElementList) IsEmpty(ctx context.Context) (bool, error) {
	n, err := l.Len(ctx)

	return n == 0, err
}

// All returns a plain snapshot of a fresh query.
func (l *LazyElementList) All(ctx context.Context) ([]Element, error) {
	return l.fetch(ctx, OpAll)
}

// Contains reports whether el is part of a fresh query. Handles are
// unwrapped before comparing.
func (l *LazyElementList) Contains(ctx context.Context, el Element) (bool, error) {
	i, err := l.IndexOf(ctx, el)

	return i >= 0, err
}

// ContainsAll reports whether every element of els is part of one fresh
// query.
func (l *LazyElementList) ContainsAll(ctx context.Context, els []Element) (bool, error) {
	current, err := l.fetch(ctx, OpAll)
	if err != nil {
		return false, err
	}

	for _, el := range els {
		raw, err := Unwrap(ctx, el)
		if err != nil {
			return false, wrapOp(OpAll, err)
		}

		if indexOf(current, raw, false) < 0 {
			return false, nil
		}
	}

	return true, nil
}

// IndexOf returns the first position of el in a fresh query, or -1.
func (l *LazyElementList) IndexOf(ctx context.Context, el Element) (int, error) {
	return l.search(ctx, el, false)
}

// LastIndexOf returns the last position of el in a fresh query, or -1.
func (l *LazyElementList) LastIndexOf(ctx context.Context, el Element) (int, error) {
	return l.search(ctx, el, true)
}

func (l *LazyElementList) search(ctx context.Context, el Element, last bool) (int, error) {
	raw, err := Unwrap(ctx, el)
	if err != nil {
		return -1, wrapOp(OpAll, err)
	}

	current, err := l.fetch(ctx, OpAll)
	if err != nil {
		return -1, err
	}

	return indexOf(current, raw, last), nil
}

func indexOf(els []Element, target Element, last bool) int {
	found := -1

	for i, el := range els {
		if sameElement(el, target) {
			if !last {
				return i
			}

			found = i
		}
	}

	return found
}

// Sub returns a plain snapshot of positions [from, to) of a fresh query.
// Unlike Get, the elements are raw: they neither wait nor retry.
func (l *LazyElementList) Sub(ctx context.Context, from, to int) ([]Element, error) {
	current, err := l.fetch(ctx, OpSub)
	if err != nil {
		return nil, err
	}

	if err = checkRange(from, to, len(current)); err != nil {
		return nil, wrapOp(OpSub, err)
	}

	out := make([]Element, to-from)
	copy(out, current[from:to])

	return out, nil
}

// Get waits up to [WaitTimeout] for a fresh query to reach index and for
// the element there to answer a trivial read. It then returns a handle
// that re-runs the query and re-reads position index on every use, so it
// stays valid while the collection re-renders.
//
// When the wait gives up, one last query decides: if it is still too
// short the error wraps [ErrIndexUnavailable].
//
//nolint:ireturn // returns *ElementHandle as Element
func (l *LazyElementList) Get(ctx context.Context, index int) (Element, error) {
	if index < 0 {
		return nil, wrapOp(OpGet, &IndexError{Index: index})
	}

	fields := logrus.Fields{"index": index}
	l.s.logf(logrus.DebugLevel, fields, "waiting for element at index %d", index)

	start := l.s.clock.Now()
	ready := l.awaitIndex(ctx, index)
	waited := l.s.clock.Since(start)

	l.s.hooks.emitIndexWait(index, waited)

	if !ready {
		l.s.logf(logrus.WarnLevel, fields, "wait for index %d timed out, checking once more", index)

		current, err := l.fetch(ctx, OpGet)
		if err != nil {
			return nil, err
		}

		if index >= len(current) {
			return nil, wrapOp(OpGet, &IndexError{Index: index, Len: len(current)})
		}
	}

	return newElement(l.positionRef(index), l.s), nil
}

// awaitIndex polls until index exists and answers TagName. Every failure
// along the way only means "not yet".
func (l *LazyElementList) awaitIndex(ctx context.Context, index int) bool {
	start := l.s.clock.Now()

	for {
		if els, err := l.query(ctx); err == nil && index < len(els) {
			if _, err = els[index].TagName(ctx); err == nil {
				return true
			}
		}

		if l.s.clock.Since(start) >= WaitTimeout {
			return false
		}

		if err := sleep(ctx, l.s.clock, IndexPollInterval); err != nil {
			return false
		}
	}
}

func (l *LazyElementList) positionRef(index int) ElementRef {
	query := l.query

	return func(ctx context.Context) (Element, error) {
		els, err := query(ctx)
		if err != nil {
			return nil, err
		}

		if index >= len(els) {
			return nil, fmt.Errorf(
				"%w: element at index %d is no longer available",
				ErrNoSuchElement,
				index,
			)
		}

		return els[index], nil
	}
}

// Each calls fn for every index, fetching elements through Get. It stops
// at the first error from Get or fn. The length is re-read before each
// step, so elements appended meanwhile are visited too.
func (l *LazyElementList) Each(ctx context.Context, fn func(int, Element) error) error {
	for i := 0; ; i++ {
		n, err := l.Len(ctx)
		if err != nil {
			return err
		}

		if i >= n {
			return nil
		}

		el, err := l.Get(ctx, i)
		if err != nil {
			return err
		}

		if err = fn(i, el); err != nil {
			return err
		}
	}
}

// Seq iterates the list through Get. A failure is yielded once, with a
// nil element, and ends the iteration.
func (l *LazyElementList) Seq(ctx context.Context) iter.Seq2[Element, error] {
	return func(yield func(Element, error) bool) {
		err := l.Each(ctx, func(_ int, el Element) error {
			if !yield(el, nil) {
				return errStopIteration
			}

			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, err)
		}
	}
}

// Cursor returns a bidirectional iterator positioned before start.
func (l *LazyElementList) Cursor(start int) *Cursor {
	return &Cursor{list: l, pos: start}
}

// Add always fails: the list is read-only.
func (l *LazyElementList) Add(Element) error { return mutationErr() }

// Insert always fails: the list is read-only.
func (l *LazyElementList) Insert(int, Element) error { return mutationErr() }

// Set always fails: the list is read-only.
func (l *LazyElementList) Set(int, Element) error { return mutationErr() }

// Remove always fails: the list is read-only.
func (l *LazyElementList) Remove(Element) error { return mutationErr() }

// RemoveAt always fails: the list is read-only.
func (l *LazyElementList) RemoveAt(int) error { return mutationErr() }

// Clear always fails: the list is read-only.
func (l *LazyElementList) Clear() error { return mutationErr() }

// AddAll always fails: the list is read-only.
func (l *LazyElementList) AddAll([]Element) error { return mutationErr() }

// RemoveAll always fails: the list is read-only.
func (l *LazyElementList) RemoveAll([]Element) error { return mutationErr() }

// RetainAll always fails: the list is read-only.
func (l *LazyElementList) RetainAll([]Element) error { return mutationErr() }

func mutationErr() error {
	return &OpError{Op: OpMutate, Err: ErrUnsupportedMutation}
}
