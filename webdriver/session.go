package webdriver

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/byte4ever/steady"
)

// elementKey is the W3C web element identifier.
const elementKey = "element-6066-11e4-a52f-4a23ddb2c4ee"

// legacyElementKey is still sent by some JSON wire protocol servers.
const legacyElementKey = "ELEMENT"

// Session is an open WebDriver session. It implements [steady.Driver].
type Session struct {
	hc      *http.Client
	logger  logrus.FieldLogger
	baseURL string
	id      string
}

// Option configures a [Session].
type Option func(*Session)

// WithHTTPClient sets the HTTP client used for every command.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Session) { s.hc = hc }
}

// WithLogger sets the logger receiving per-command debug lines.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.logger = l }
}

func newSession(baseURL string, opts []Option) *Session {
	s := &Session{
		hc:      &http.Client{Timeout: 60 * time.Second},
		logger:  logrus.StandardLogger(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// NewSession starts a new session on the remote end at baseURL. caps are
// sent as the alwaysMatch capabilities.
func NewSession(
	ctx context.Context,
	baseURL string,
	caps map[string]any,
	opts ...Option,
) (*Session, error) {
	s := newSession(baseURL, opts)

	if caps == nil {
		caps = map[string]any{}
	}

	body := map[string]any{
		"capabilities": map[string]any{"alwaysMatch": caps},
	}

	var value struct {
		SessionID string `json:"sessionId"`
	}

	if err := s.do(ctx, http.MethodPost, "/session", body, &value); err != nil {
		return nil, fmt.Errorf("webdriver: new session: %w", err)
	}

	if value.SessionID == "" {
		return nil, errors.New("webdriver: new session: no session id in response")
	}

	s.id = value.SessionID

	return s, nil
}

// Attach returns a session bound to an already running session id.
func Attach(baseURL, sessionID string, opts ...Option) *Session {
	s := newSession(baseURL, opts)
	s.id = sessionID

	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Status reports whether the remote end is ready to create sessions.
func (s *Session) Status(ctx context.Context) (bool, error) {
	var value struct {
		Ready bool `json:"ready"`
	}

	if err := s.do(ctx, http.MethodGet, "/status", nil, &value); err != nil {
		return false, err
	}

	return value.Ready, nil
}

func (s *Session) path(p string) string {
	return "/session/" + url.PathEscape(s.id) + p
}

// do sends one command and decodes the "value" member of the reply into
// out when out is not nil.
func (s *Session) do(
	ctx context.Context,
	method, path string,
	body any,
	out any,
) error {
	start := time.Now()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	}).Debug("webdriver command")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(envelope.Value) == 0 {
		return nil
	}

	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("parse response value: %w", err)
	}

	return nil
}

func decodeError(status int, data []byte) error {
	var envelope struct {
		Value struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		} `json:"value"`
	}

	if json.Unmarshal(data, &envelope) != nil || envelope.Value.Error == "" {
		return &Error{Status: status, Message: strings.TrimSpace(string(data))}
	}

	return &Error{
		Code:    envelope.Value.Error,
		Message: envelope.Value.Message,
		Status:  status,
	}
}

// FindElement implements [steady.SearchContext].
func (s *Session) FindElement(ctx context.Context, by steady.By) (steady.Element, error) {
	return s.findElement(ctx, s.path("/element"), by)
}

// FindElements implements [steady.SearchContext].
func (s *Session) FindElements(ctx context.Context, by steady.By) (steady.ElementList, error) {
	return s.findElements(ctx, s.path("/elements"), by)
}

func (s *Session) findElement(ctx context.Context, path string, by steady.By) (steady.Element, error) {
	var ref map[string]string

	if err := s.do(ctx, http.MethodPost, path, by, &ref); err != nil {
		return nil, err
	}

	id := refID(ref)
	if id == "" {
		return nil, fmt.Errorf("%w: %s", steady.ErrNoSuchElement, by)
	}

	return &Element{session: s, id: id}, nil
}

func (s *Session) findElements(ctx context.Context, path string, by steady.By) (steady.ElementList, error) {
	var refs []map[string]string

	if err := s.do(ctx, http.MethodPost, path, by, &refs); err != nil {
		return nil, err
	}

	els := make(steady.Elements, 0, len(refs))

	for _, ref := range refs {
		if id := refID(ref); id != "" {
			els = append(els, &Element{session: s, id: id})
		}
	}

	return els, nil
}

func refID(ref map[string]string) string {
	if id := ref[elementKey]; id != "" {
		return id
	}

	return ref[legacyElementKey]
}

// Navigate loads url in the current browsing context.
func (s *Session) Navigate(ctx context.Context, u string) error {
	return s.do(ctx, http.MethodPost, s.path("/url"), map[string]string{"url": u}, nil)
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return getString(ctx, s, s.path("/url"))
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	return getString(ctx, s, s.path("/title"))
}

// PageSource returns the serialized DOM.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	return getString(ctx, s, s.path("/source"))
}

// ExecuteScript runs script synchronously. Arguments that are elements of
// this package, or handles around them, are sent as web element
// references. Element references in the result come back as [*Element].
func (s *Session) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	encoded := make([]any, len(args))

	for i, a := range args {
		v, err := s.encodeArg(ctx, a)
		if err != nil {
			return nil, err
		}

		encoded[i] = v
	}

	var result any

	body := map[string]any{"script": script, "args": encoded}

	if err := s.do(ctx, http.MethodPost, s.path("/execute/sync"), body, &result); err != nil {
		return nil, err
	}

	return s.decodeResult(result), nil
}

func (s *Session) encodeArg(ctx context.Context, a any) (any, error) {
	el, ok := a.(steady.Element)
	if !ok {
		return a, nil
	}

	raw, err := steady.Unwrap(ctx, el)
	if err != nil {
		return nil, err
	}

	wel, ok := raw.(*Element)
	if !ok {
		return nil, fmt.Errorf("webdriver: script argument %T is not a webdriver element", raw)
	}

	return map[string]string{elementKey: wel.id}, nil
}

func (s *Session) decodeResult(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t[elementKey].(string); ok && len(t) == 1 {
			return &Element{session: s, id: id}
		}

		for k, item := range t {
			t[k] = s.decodeResult(item)
		}

		return t
	case []any:
		for i, item := range t {
			t[i] = s.decodeResult(item)
		}

		return t
	default:
		return v
	}
}

// Screenshot returns a PNG of the current viewport.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	encoded, err := getString(ctx, s, s.path("/screenshot"))
	if err != nil {
		return nil, err
	}

	png, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	return png, nil
}

// Quit ends the session.
func (s *Session) Quit(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, s.path(""), nil, nil)
}

func getString(ctx context.Context, s *Session, path string) (string, error) {
	var v string

	if err := s.do(ctx, http.MethodGet, path, nil, &v); err != nil {
		return "", err
	}

	return v, nil
}
