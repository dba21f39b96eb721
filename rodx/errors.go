package rodx

import (
	"errors"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"

	"github.com/byte4ever/steady"
)

// ErrUnsupportedLocator is returned for locator strategies rod cannot
// express.
var ErrUnsupportedLocator = errors.New("rodx: unsupported locator strategy")

// Error pairs a rod error with the steady failure class it belongs to.
type Error struct {
	Class error
	Err   error
}

func (e *Error) Error() string {
	return "rodx: " + e.Class.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error { return []error{e.Class, e.Err} }

// staleMessages are CDP error messages meaning the remote object or its
// execution context went away.
var staleMessages = []string{
	"Could not find object with given id",
	"Cannot find context with specified id",
	"Execution context was destroyed",
	"No node with given id found",
	"Node with given id does not belong to the document",
}

// classify maps err onto a steady failure class. Errors with no matching
// class are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if class := classOf(err); class != nil {
		return &Error{Class: class, Err: err}
	}

	return err
}

func classOf(err error) error {
	var (
		notFound *rod.ElementNotFoundError
		covered  *rod.CoveredError
		noInter  *rod.NotInteractableError
		noShape  *rod.InvisibleShapeError
		noEvents *rod.NoPointerEventsError
		gone     *rod.ObjectNotFoundError
		cdpErr   *cdp.Error
	)

	switch {
	case errors.As(err, &notFound):
		return steady.ErrNoSuchElement
	case errors.As(err, &covered):
		return steady.ErrClickIntercepted
	case errors.As(err, &noInter),
		errors.As(err, &noShape),
		errors.As(err, &noEvents):
		return steady.ErrNotInteractable
	case errors.As(err, &gone):
		return steady.ErrStaleElement
	case errors.Is(err, cdp.ErrObjNotFound),
		errors.Is(err, cdp.ErrCtxNotFound),
		errors.Is(err, cdp.ErrCtxDestroyed):
		return steady.ErrStaleElement
	case errors.As(err, &cdpErr):
		for _, m := range staleMessages {
			if strings.Contains(cdpErr.Message, m) {
				return steady.ErrStaleElement
			}
		}
	}

	return nil
}
