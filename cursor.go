package steady

import (
	"context"
	"fmt"
)

// Cursor walks a [LazyElementList] in both directions. Every step goes
// through [LazyElementList.Get], so it waits for the index like any other
// indexed access. Its mutators fail like the list's.
type Cursor struct {
	list *LazyElementList
	pos  int
}

// HasNext reports whether a fresh query has an element at NextIndex.
func (c *Cursor) HasNext(ctx context.Context) (bool, error) {
	n, err := c.list.Len(ctx)

	return c.pos < n, err
}

// Next returns the element at NextIndex and advances.
//
//nolint:ireturn // returns *ElementHandle as Element
func (c *Cursor) Next(ctx context.Context) (Element, error) {
	ok, err := c.HasNext(ctx)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: no element after index %d", ErrNoSuchElement, c.pos-1)
	}

	el, err := c.list.Get(ctx, c.pos)
	if err != nil {
		return nil, err
	}

	c.pos++

	return el, nil
}

// HasPrevious reports whether the cursor is past the first position.
func (c *Cursor) HasPrevious() bool { return c.pos > 0 }

// Previous steps back and returns the element there.
//
//nolint:ireturn // returns *ElementHandle as Element
func (c *Cursor) Previous(ctx context.Context) (Element, error) {
	if !c.HasPrevious() {
		return nil, fmt.Errorf("%w: no element before index 0", ErrNoSuchElement)
	}

	el, err := c.list.Get(ctx, c.pos-1)
	if err != nil {
		return nil, err
	}

	c.pos--

	return el, nil
}

// NextIndex is the index Next would return.
func (c *Cursor) NextIndex() int { return c.pos }

// PreviousIndex is the index Previous would return.
func (c *Cursor) PreviousIndex() int { return c.pos - 1 }

// Remove always fails: the list is read-only.
func (c *Cursor) Remove() error { return mutationErr() }

// Set always fails: the list is read-only.
func (c *Cursor) Set(Element) error { return mutationErr() }

// Add always fails: the list is read-only.
func (c *Cursor) Add(Element) error { return mutationErr() }
