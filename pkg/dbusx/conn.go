package dbusx

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/keyfold/keyfold/pkg/secrets"
)

// Well-known names of the secret service on the session bus.
const (
	BusName     = "org.freedesktop.secrets"
	ServicePath = dbus.ObjectPath("/org/freedesktop/secrets")

	serviceIface    = "org.freedesktop.Secret.Service"
	collectionIface = "org.freedesktop.Secret.Collection"
	itemIface       = "org.freedesktop.Secret.Item"
	promptIface     = "org.freedesktop.Secret.Prompt"

	// defaultCollectionPath is where items land when the caller names no
	// collection.
	defaultCollectionPath = dbus.ObjectPath("/org/freedesktop/secrets/aliases/default")
)

// Conn is a private session-bus connection to the secret service. It is
// shared by the Transport, Session and Prompter built on it and is safe
// for concurrent use.
type Conn struct {
	bus *dbus.Conn
}

// Connect opens a private connection to the session bus. Callers own the
// connection and must Close it when done.
func Connect(ctx context.Context) (*Conn, error) {
	bus, err := dbus.SessionBusPrivate(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	if err := bus.Auth(nil); err != nil {
		bus.Close()
		return nil, fmt.Errorf("authenticating to session bus: %w", err)
	}
	if err := bus.Hello(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("registering on session bus: %w", err)
	}
	return &Conn{bus: bus}, nil
}

// Close releases the bus connection.
func (c *Conn) Close() error {
	return c.bus.Close()
}

// service returns the proxy for the service root object.
func (c *Conn) service() dbus.BusObject {
	return c.bus.Object(BusName, ServicePath)
}

// object returns the proxy for an arbitrary service-owned object.
func (c *Conn) object(path dbus.ObjectPath) dbus.BusObject {
	return c.bus.Object(BusName, path)
}

func toDBusPath(p secrets.ObjectPath) dbus.ObjectPath {
	if !p.IsSet() {
		return dbus.ObjectPath(secrets.NoObject)
	}
	return dbus.ObjectPath(p)
}

func toDBusPaths(in []secrets.ObjectPath) []dbus.ObjectPath {
	out := make([]dbus.ObjectPath, len(in))
	for i, p := range in {
		out[i] = dbus.ObjectPath(p)
	}
	return out
}

func fromDBusPaths(in []dbus.ObjectPath) []secrets.ObjectPath {
	out := make([]secrets.ObjectPath, len(in))
	for i, p := range in {
		out[i] = secrets.ObjectPath(p)
	}
	return out
}
