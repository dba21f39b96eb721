package steady

import (
	"context"
	"fmt"
)

const (
	clickScript     = "arguments[0].click();"
	innerTextScript = "return arguments[0].innerText;"
	scrollScript    = "arguments[0].scrollIntoView({behavior: 'smooth', block: 'center'});"
)

// JSClick clicks el by dispatching a click from script, bypassing any
// overlay that intercepts pointer events. Handles are unwrapped first.
// It is the default [ScriptClickFunc].
func JSClick(ctx context.Context, el Element) error {
	_, err := runScript(ctx, el, clickScript)

	return err
}

// ScriptText returns the innerText of el read from script, which tracks
// dynamically updated content more closely than the native text call.
func ScriptText(ctx context.Context, el Element) (string, error) {
	res, err := runScript(ctx, el, innerTextScript)
	if err != nil {
		return "", err
	}

	switch v := res.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// ScrollIntoView centres el in the viewport.
func ScrollIntoView(ctx context.Context, el Element) error {
	_, err := runScript(ctx, el, scrollScript)

	return err
}

func runScript(ctx context.Context, el Element, script string) (any, error) {
	raw, err := Unwrap(ctx, el)
	if err != nil {
		return nil, fmt.Errorf("steady: script: resolve element: %w", err)
	}

	drv, err := raw.WrappedDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("steady: script: element driver: %w", err)
	}

	res, err := drv.ExecuteScript(ctx, script, raw)
	if err != nil {
		return nil, fmt.Errorf("steady: script: %w", err)
	}

	return res, nil
}
