package dbusx

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/keyfold/keyfold/pkg/secrets"
)

// Prompter implements secrets.Prompter by driving the service's prompt
// objects: subscribe to the prompt's Completed signal, call Prompt, and
// wait for the signal to arrive.
type Prompter struct {
	conn *Conn

	// windowID identifies the caller's window so the prompt dialog can be
	// parented to it. Empty is valid for terminal callers.
	windowID string
}

// NewPrompter builds a Prompter on conn.
func NewPrompter(conn *Conn, windowID string) *Prompter {
	return &Prompter{conn: conn, windowID: windowID}
}

// RunPrompt performs the prompt at path and blocks until it completes, is
// dismissed, or ctx ends. On cancellation the prompt is dismissed on the
// service side before returning.
func (p *Prompter) RunPrompt(ctx context.Context, prompt secrets.ObjectPath) (secrets.PromptResult, error) {
	path := dbus.ObjectPath(prompt)

	// Subscribe before calling Prompt; the signal can fire immediately.
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(promptIface),
		dbus.WithMatchMember("Completed"),
	}
	if err := p.conn.bus.AddMatchSignalContext(ctx, match...); err != nil {
		return secrets.PromptResult{}, fmt.Errorf("subscribing to prompt completion: %w", err)
	}
	defer p.conn.bus.RemoveMatchSignal(match...)

	signals := make(chan *dbus.Signal, 4)
	p.conn.bus.Signal(signals)
	defer p.conn.bus.RemoveSignal(signals)

	obj := p.conn.object(path)
	if call := obj.CallWithContext(ctx, promptIface+".Prompt", 0, p.windowID); call.Err != nil {
		return secrets.PromptResult{}, fmt.Errorf("performing prompt: %w", call.Err)
	}

	for {
		select {
		case <-ctx.Done():
			// Best effort; the prompt object is dead either way once we
			// stop listening.
			obj.Call(promptIface+".Dismiss", 0)
			return secrets.PromptResult{}, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return secrets.PromptResult{}, fmt.Errorf("bus connection closed while prompt pending")
			}
			if sig.Path != path || sig.Name != promptIface+".Completed" {
				continue
			}
			return decodeCompleted(sig.Body)
		}
	}
}

// decodeCompleted unpacks the (b dismissed, v result) body of a Completed
// signal. Lock and unlock prompts resolve to a path list, creation and
// deletion prompts to a single path.
func decodeCompleted(body []interface{}) (secrets.PromptResult, error) {
	if len(body) != 2 {
		return secrets.PromptResult{}, fmt.Errorf("prompt completion carries %d values, want 2", len(body))
	}
	dismissed, ok := body[0].(bool)
	if !ok {
		return secrets.PromptResult{}, fmt.Errorf("prompt completion flag is %T, want bool", body[0])
	}
	res := secrets.PromptResult{Dismissed: dismissed}
	if dismissed {
		return res, nil
	}

	result := body[1]
	if v, ok := result.(dbus.Variant); ok {
		result = v.Value()
	}
	switch r := result.(type) {
	case []dbus.ObjectPath:
		res.Paths = fromDBusPaths(r)
	case dbus.ObjectPath:
		res.Path = secrets.ObjectPath(r)
	case string:
		res.Path = secrets.ObjectPath(r)
	case nil:
	default:
		return secrets.PromptResult{}, fmt.Errorf("prompt completion result is %T, want object path or path list", result)
	}
	return res, nil
}
