package secrets

import "context"

// SessionCodec is the secure-session collaborator. It negotiates the
// transfer session with the service and moves secret payloads between
// their wire form and Value.
//
// Ensure may block (it can involve a key exchange with the service) and
// must be idempotent: once a session exists, it returns the same session
// path. Encode and Decode are local and fail with ErrNoSession if called
// before Ensure succeeded.
type SessionCodec interface {
	Ensure(ctx context.Context) (ObjectPath, error)
	Encode(v *Value) (WireSecret, error)
	Decode(ws WireSecret) (*Value, error)
	DecodeAll(in map[ObjectPath]WireSecret) (map[ObjectPath]*Value, error)
}
