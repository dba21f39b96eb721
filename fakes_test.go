package steady

import (
	"context"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Test helpers: virtual clocks
// ---------------------------------------------------------------------------

// autoClock fires every timer at once and advances virtual time by the
// timer's duration, so ten-second waits finish instantly.
type autoClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newAutoClock() *autoClock {
	return &autoClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *autoClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *autoClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *autoClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now := c.now
	c.mu.Unlock()

	t := &firedTimer{ch: make(chan time.Time, 1)}
	t.ch <- now

	return t
}

// slept returns the total virtual time spent in timers of length d, or in
// all timers when d is zero.
func (c *autoClock) slept(d time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total time.Duration

	for _, s := range c.sleeps {
		if d == 0 || s == d {
			total += s
		}
	}

	return total
}

type firedTimer struct{ ch chan time.Time }

func (t *firedTimer) C() <-chan time.Time { return t.ch }
func (t *firedTimer) Stop() bool          { return false }

// stuckClock hands out timers that never fire.
type stuckClock struct{}

func (stuckClock) Now() time.Time                { return time.Unix(0, 0) }
func (stuckClock) Since(time.Time) time.Duration { return 0 }
func (stuckClock) NewTimer(time.Duration) Timer  { return &firedTimer{ch: make(chan time.Time)} }

// ---------------------------------------------------------------------------
// Test helpers: fake driver and element
// ---------------------------------------------------------------------------

type scriptCall struct {
	script string
	args   []any
}

type fakeDriver struct {
	mu        sync.Mutex
	find      func(ctx context.Context, by By) (Element, error)
	findAll   func(ctx context.Context, by By) ([]Element, error)
	scripts   []scriptCall
	scriptRes any
	scriptErr error
	url       string
}

var _ Driver = (*fakeDriver)(nil)

func (d *fakeDriver) FindElement(ctx context.Context, by By) (Element, error) {
	if d.find == nil {
		return nil, ErrNoSuchElement
	}

	return d.find(ctx, by)
}

func (d *fakeDriver) FindElements(ctx context.Context, by By) (ElementList, error) {
	if d.findAll == nil {
		return Elements{}, nil
	}

	els, err := d.findAll(ctx, by)
	if err != nil {
		return nil, err
	}

	return Elements(els), nil
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.url = url

	return nil
}

func (d *fakeDriver) CurrentURL(context.Context) (string, error) { return d.url, nil }
func (d *fakeDriver) Title(context.Context) (string, error)      { return "fake", nil }
func (d *fakeDriver) PageSource(context.Context) (string, error) { return "<html/>", nil }
func (d *fakeDriver) Screenshot(context.Context) ([]byte, error) { return nil, nil }
func (d *fakeDriver) Quit(context.Context) error                 { return nil }

func (d *fakeDriver) ExecuteScript(_ context.Context, script string, args ...any) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.scripts = append(d.scripts, scriptCall{script: script, args: args})

	return d.scriptRes, d.scriptErr
}

func (d *fakeDriver) scriptCalls() []scriptCall {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]scriptCall(nil), d.scripts...)
}

// fakeElement counts calls per method and pops queued failures before
// answering.
type fakeElement struct {
	mu        sync.Mutex
	id        string
	driver    *fakeDriver
	tag       string
	text      string
	attrs     map[string]string
	hidden    bool
	disabled  bool
	selected  bool
	calls     map[string]int
	failures  map[string][]error
	children  map[By]Element
	typedKeys []string
}

var (
	_ Element    = (*fakeElement)(nil)
	_ Identifier = (*fakeElement)(nil)
)

func newFakeElement(id string, d *fakeDriver) *fakeElement {
	return &fakeElement{
		id:       id,
		driver:   d,
		tag:      "div",
		text:     id,
		attrs:    map[string]string{},
		calls:    map[string]int{},
		failures: map[string][]error{},
		children: map[By]Element{},
	}
}

func (e *fakeElement) ID() string { return e.id }

// failNext queues errs for the next calls of method.
func (e *fakeElement) failNext(method string, errs ...error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.failures[method] = append(e.failures[method], errs...)
}

// failAlways makes every call of method return err.
func (e *fakeElement) failAlways(method string, err error) {
	errs := make([]error, 1000)
	for i := range errs {
		errs[i] = err
	}

	e.failNext(method, errs...)
}

func (e *fakeElement) count(method string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.calls[method]
}

func (e *fakeElement) record(method string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls[method]++

	if q := e.failures[method]; len(q) > 0 {
		e.failures[method] = q[1:]

		return q[0]
	}

	return nil
}

func (e *fakeElement) FindElement(_ context.Context, by By) (Element, error) {
	if err := e.record("FindElement"); err != nil {
		return nil, err
	}

	child, ok := e.children[by]
	if !ok {
		return nil, ErrNoSuchElement
	}

	return child, nil
}

func (e *fakeElement) FindElements(_ context.Context, by By) (ElementList, error) {
	if err := e.record("FindElements"); err != nil {
		return nil, err
	}

	if child, ok := e.children[by]; ok {
		return Elements{child}, nil
	}

	return Elements{}, nil
}

func (e *fakeElement) Click(context.Context) error { return e.record("Click") }

func (e *fakeElement) SendKeys(_ context.Context, text string) error {
	if err := e.record("SendKeys"); err != nil {
		return err
	}

	e.typedKeys = append(e.typedKeys, text)

	return nil
}

func (e *fakeElement) Clear(context.Context) error { return e.record("Clear") }

func (e *fakeElement) Text(context.Context) (string, error) {
	return e.text, e.record("Text")
}

func (e *fakeElement) TagName(context.Context) (string, error) {
	return e.tag, e.record("TagName")
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, error) {
	return e.attrs[name], e.record("Attribute")
}

func (e *fakeElement) Property(_ context.Context, name string) (string, error) {
	return e.attrs[name], e.record("Property")
}

func (e *fakeElement) CSSValue(context.Context, string) (string, error) {
	return "block", e.record("CSSValue")
}

func (e *fakeElement) Rect(context.Context) (Rect, error) {
	return Rect{Width: 10, Height: 10}, e.record("Rect")
}

func (e *fakeElement) IsDisplayed(context.Context) (bool, error) {
	return !e.hidden, e.record("IsDisplayed")
}

func (e *fakeElement) IsEnabled(context.Context) (bool, error) {
	return !e.disabled, e.record("IsEnabled")
}

func (e *fakeElement) IsSelected(context.Context) (bool, error) {
	return e.selected, e.record("IsSelected")
}

func (e *fakeElement) WrappedDriver(context.Context) (Driver, error) {
	return e.driver, e.record("WrappedDriver")
}

// staticRef always resolves to el and counts resolutions.
func staticRef(el Element, calls *int) ElementRef {
	return func(context.Context) (Element, error) {
		if calls != nil {
			*calls++
		}

		return el, nil
	}
}

// testOptions returns options for quiet, instant handles.
func testOptions(clock Clock, extra ...Option) []Option {
	return append([]Option{
		WithClock(clock),
		WithVerbose(false),
	}, extra...)
}
