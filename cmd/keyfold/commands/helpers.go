package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/keyfold/keyfold/internal/config"
	"github.com/keyfold/keyfold/internal/metrics"
	"github.com/keyfold/keyfold/internal/schema"
	"github.com/keyfold/keyfold/pkg/dbusx"
	"github.com/keyfold/keyfold/pkg/secrets"
)

// client bundles a running Service with the bus connection backing it.
type client struct {
	svc  *secrets.Service
	conn *dbusx.Conn
}

func (c *client) Close() {
	c.svc.Close()
	c.conn.Close()
}

// openClient loads the config, connects to the session bus and wires up
// the service. The caller must Close the returned client.
func openClient(ctx context.Context, cfg *config.Config) (*client, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	if cfg.Metrics {
		metrics.Init()
	}

	conn, err := dbusx.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var prompter secrets.Prompter = dbusx.NewPrompter(conn, cfg.WindowID)
	if cfg.NonInteractive {
		prompter = dismissPrompter{}
	}

	svc := secrets.NewService(
		dbusx.NewTransport(conn),
		dbusx.NewSession(conn),
		prompter,
		secrets.WithLogger(cfg.Logger),
		secrets.WithValidator(schema.New()),
	)
	return &client{svc: svc, conn: conn}, nil
}

// dismissPrompter refuses every prompt, for non-interactive runs.
type dismissPrompter struct{}

func (dismissPrompter) RunPrompt(ctx context.Context, prompt secrets.ObjectPath) (secrets.PromptResult, error) {
	return secrets.PromptResult{Dismissed: true}, nil
}

// parseAttributes turns key=value arguments into an attribute map.
func parseAttributes(args []string) (secrets.Attributes, error) {
	attrs := make(secrets.Attributes, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("attribute %q is not of the form key=value", arg)
		}
		if _, dup := attrs[key]; dup {
			return nil, fmt.Errorf("attribute %q given twice", key)
		}
		attrs[key] = value
	}
	return attrs, nil
}

// cliSchema builds the schema for CLI-supplied attributes. The CLI cannot
// know attribute types, so every given attribute is declared as a free
// string; the schema's job here is carrying the name into the match
// attributes.
func cliSchema(name string, attrs secrets.Attributes) *secrets.Schema {
	if name == "" {
		return nil
	}
	typed := make(map[string]secrets.AttributeType, len(attrs))
	for k := range attrs {
		typed[k] = secrets.AttributeString
	}
	return &secrets.Schema{Name: name, Attributes: typed}
}
