package webdriver

import (
	"strconv"

	"github.com/byte4ever/steady"
)

// W3C error codes the client maps onto steady failure classes.
const (
	CodeStaleElement      = "stale element reference"
	CodeClickIntercepted  = "element click intercepted"
	CodeNoSuchElement     = "no such element"
	CodeNotInteractable   = "element not interactable"
	CodeInvalidElemState  = "invalid element state"
	CodeNoSuchWindow      = "no such window"
	CodeInvalidSessionID  = "invalid session id"
	CodeJavascriptError   = "javascript error"
	CodeUnknownError      = "unknown error"
	CodeUnknownCommand    = "unknown command"
	CodeInvalidArgument   = "invalid argument"
	CodeInvalidSelector   = "invalid selector"
	CodeTimeout           = "timeout"
	CodeUnsupportedAction = "unsupported operation"
)

var classes = map[string]error{
	CodeStaleElement:     steady.ErrStaleElement,
	CodeClickIntercepted: steady.ErrClickIntercepted,
	CodeNoSuchElement:    steady.ErrNoSuchElement,
	CodeNotInteractable:  steady.ErrNotInteractable,
	CodeInvalidElemState: steady.ErrNotInteractable,
}

// Error is a failure reported by the remote end. It unwraps to the
// matching steady sentinel when the code has one.
type Error struct {
	// Code is the W3C error code, e.g. "no such element".
	Code string
	// Message is the human readable detail sent by the server.
	Message string
	// Status is the HTTP status code of the response.
	Status int
}

func (e *Error) Error() string {
	if e.Code == "" {
		return "webdriver: http status " + strconv.Itoa(e.Status) + ": " + e.Message
	}

	return "webdriver: " + e.Code + ": " + e.Message
}

// Unwrap returns the steady failure class for the code, or nil.
func (e *Error) Unwrap() error { return classes[e.Code] }
