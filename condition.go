package steady

import "time"

// Wait window shared by every handle and list. It is deliberately not
// configurable per call.
const (
	// WaitTimeout bounds every readiness and index wait.
	WaitTimeout = 10 * time.Second
	// ConditionPollInterval separates two readiness checks.
	ConditionPollInterval = 100 * time.Millisecond
	// IndexPollInterval separates two queries while waiting for an index.
	IndexPollInterval = 200 * time.Millisecond
)

// Condition is the readiness state an element must reach before an
// operation is attempted.
type Condition int

const (
	// DOMPresent means the element resolves and answers a trivial read.
	DOMPresent Condition = iota
	// Visible means the element is rendered and displayed.
	Visible
	// Clickable means the element is displayed and enabled.
	Clickable
)

// String returns the condition name as used in log fields.
func (c Condition) String() string {
	switch c {
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	default:
		return "dom_present"
	}
}

// Op enumerates the operations a handle intercepts.
type Op int

// Element operations.
const (
	OpClick Op = iota
	OpSendKeys
	OpClear
	OpText
	OpTagName
	OpAttribute
	OpProperty
	OpCSSValue
	OpRect
	OpIsDisplayed
	OpIsEnabled
	OpIsSelected
	OpWrappedDriver
	OpFindElement
	OpFindElements
	OpGet
	OpLen
	OpAll
	OpSub
	OpMutate
	OpRetry
)

//nolint:gochecknoglobals // fixed lookup table
var opNames = [...]string{
	OpClick:         "click",
	OpSendKeys:      "send_keys",
	OpClear:         "clear",
	OpText:          "text",
	OpTagName:       "tag_name",
	OpAttribute:     "attribute",
	OpProperty:      "property",
	OpCSSValue:      "css_value",
	OpRect:          "rect",
	OpIsDisplayed:   "is_displayed",
	OpIsEnabled:     "is_enabled",
	OpIsSelected:    "is_selected",
	OpWrappedDriver: "wrapped_driver",
	OpFindElement:   "find_element",
	OpFindElements:  "find_elements",
	OpGet:           "get",
	OpLen:           "len",
	OpAll:           "all",
	OpSub:           "sub",
	OpMutate:        "mutate",
	OpRetry:         "retry",
}

// String returns the operation name.
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}

	return opNames[o]
}

// Condition returns the readiness condition that must hold before o runs.
// Input operations need a clickable target, IsDisplayed needs a visible
// one, and everything else only needs the element to be in the DOM.
func (o Op) Condition() Condition {
	switch o {
	case OpClick, OpSendKeys, OpClear:
		return Clickable
	case OpIsDisplayed:
		return Visible
	default:
		return DOMPresent
	}
}
