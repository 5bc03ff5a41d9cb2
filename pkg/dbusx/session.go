package dbusx

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/keyfold/keyfold/pkg/secrets"
)

// Session implements secrets.SessionCodec using the plain transfer
// algorithm: payloads cross the bus unencrypted, relying on the bus
// transport for confidentiality. Ensure opens the session once and reuses
// it for the life of the connection.
type Session struct {
	conn *Conn

	mu   sync.Mutex
	path dbus.ObjectPath
}

// NewSession builds an unopened Session on conn.
func NewSession(conn *Conn) *Session {
	return &Session{conn: conn}
}

// Ensure opens the transfer session if none exists yet and returns its
// path. Safe for concurrent use; only the first caller pays the round
// trip.
func (s *Session) Ensure(ctx context.Context) (secrets.ObjectPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path != "" {
		return secrets.ObjectPath(s.path), nil
	}

	var output dbus.Variant
	var path dbus.ObjectPath
	call := s.conn.service().CallWithContext(ctx, serviceIface+".OpenSession", 0,
		"plain", dbus.MakeVariant(""))
	if err := call.Store(&output, &path); err != nil {
		return secrets.NoObject, fmt.Errorf("opening transfer session: %w", err)
	}
	s.path = path
	return secrets.ObjectPath(path), nil
}

func (s *Session) sessionPath() (dbus.ObjectPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return "", secrets.ErrNoSession
	}
	return s.path, nil
}

// Encode wraps v into its wire form for the open session.
func (s *Session) Encode(v *secrets.Value) (secrets.WireSecret, error) {
	path, err := s.sessionPath()
	if err != nil {
		return secrets.WireSecret{}, err
	}
	data, err := v.Bytes()
	if err != nil {
		return secrets.WireSecret{}, err
	}
	return secrets.WireSecret{
		Session:     secrets.ObjectPath(path),
		Params:      []byte{},
		Data:        data,
		ContentType: v.ContentType(),
	}, nil
}

// Decode unwraps one wire secret into a protected Value.
func (s *Session) Decode(ws secrets.WireSecret) (*secrets.Value, error) {
	if _, err := s.sessionPath(); err != nil {
		return nil, err
	}
	return secrets.NewValue(ws.Data, ws.ContentType), nil
}

// DecodeAll decodes a batch reply, keyed by the same item paths.
func (s *Session) DecodeAll(in map[secrets.ObjectPath]secrets.WireSecret) (map[secrets.ObjectPath]*secrets.Value, error) {
	out := make(map[secrets.ObjectPath]*secrets.Value, len(in))
	for p, ws := range in {
		v, err := s.Decode(ws)
		if err != nil {
			for _, done := range out {
				done.Destroy()
			}
			return nil, err
		}
		out[p] = v
	}
	return out, nil
}
