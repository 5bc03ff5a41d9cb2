package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when a buffer is used after Destroy.
var ErrDestroyed = errors.New("secure buffer destroyed")

// Buffer holds secret bytes encrypted at rest in memory. The enclave
// encrypts the payload with XSalsa20Poly1305, attempts to mlock it against
// swapping, and places guard pages around the plaintext whenever it is
// opened.
type Buffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	size      int
	destroyed bool
}

// NewBuffer copies data into a protected buffer. The caller keeps ownership
// of data and should zero it when no longer needed; memguard wipes the
// slice it is given, so a copy is handed over.
func NewBuffer(data []byte) *Buffer {
	// memguard rejects zero-length enclaves; an empty payload needs no
	// protection anyway.
	if len(data) == 0 {
		return &Buffer{}
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Buffer{
		enclave: memguard.NewEnclave(owned),
		size:    len(data),
	}
}

// Size returns the payload length in bytes without decrypting it.
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// With decrypts the payload into a locked buffer, invokes f on the
// plaintext, and wipes the plaintext before returning. The slice passed to
// f must not be retained past the call.
func (b *Buffer) With(f func(data []byte) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return ErrDestroyed
	}
	if b.size == 0 {
		return f(nil)
	}

	locked, err := b.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()
	return f(locked.Bytes())
}

// CopyBytes returns a plaintext copy of the payload. Ownership of the copy
// transfers to the caller, who is responsible for zeroing it.
func (b *Buffer) CopyBytes() ([]byte, error) {
	var out []byte
	err := b.With(func(data []byte) error {
		out = make([]byte, len(data))
		copy(out, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Destroy marks the buffer as unusable. The enclave ciphertext is left to
// the garbage collector; it is useless without the enclave key. Destroy is
// idempotent.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.size = 0
	b.destroyed = true
}
