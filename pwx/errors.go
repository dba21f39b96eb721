package pwx

import (
	"errors"
	"strings"

	"github.com/byte4ever/steady"
)

// ErrUnsupportedLocator is returned for locator strategies with no
// Playwright selector engine.
var ErrUnsupportedLocator = errors.New("pwx: unsupported locator strategy")

// Error pairs a Playwright error with its steady failure class.
type Error struct {
	Class error
	Err   error
}

func (e *Error) Error() string {
	return "pwx: " + e.Class.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error { return []error{e.Class, e.Err} }

// Playwright reports actionability failures as text only.
var patterns = []struct {
	text  string
	class error
}{
	{"not attached to the DOM", steady.ErrStaleElement},
	{"Execution context was destroyed", steady.ErrStaleElement},
	{"intercepts pointer events", steady.ErrClickIntercepted},
	{"element is not visible", steady.ErrNotInteractable},
	{"element is not enabled", steady.ErrNotInteractable},
	{"element is not editable", steady.ErrNotInteractable},
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	for _, p := range patterns {
		if strings.Contains(msg, p.text) {
			return &Error{Class: p.class, Err: err}
		}
	}

	return err
}
