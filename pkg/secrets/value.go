package secrets

import (
	"github.com/keyfold/keyfold/internal/secure"
)

// ContentTypeText is the content type assumed when a value carries none.
const ContentTypeText = "text/plain; charset=utf8"

// Value is a decrypted secret payload plus its content type. The bytes
// live in a memory-protected buffer; plaintext only exists while a With
// callback runs. Whoever holds a Value owns it and must call Destroy when
// done — passing a Value to another component transfers that
// responsibility.
type Value struct {
	buf         *secure.Buffer
	contentType string
}

// NewValue copies data into a protected Value. The caller keeps ownership
// of data and should zero it after the call. An empty contentType defaults
// to ContentTypeText.
func NewValue(data []byte, contentType string) *Value {
	if contentType == "" {
		contentType = ContentTypeText
	}
	return &Value{
		buf:         secure.NewBuffer(data),
		contentType: contentType,
	}
}

// ContentType returns the payload's content type label.
func (v *Value) ContentType() string {
	return v.contentType
}

// Size returns the payload length without decrypting it.
func (v *Value) Size() int {
	return v.buf.Size()
}

// With exposes the plaintext to f for the duration of the call. The slice
// must not be retained; it is wiped when f returns.
func (v *Value) With(f func(data []byte) error) error {
	return v.buf.With(f)
}

// Bytes returns a plaintext copy. The caller owns the copy and should zero
// it when no longer needed; prefer With where possible.
func (v *Value) Bytes() ([]byte, error) {
	return v.buf.CopyBytes()
}

// Text returns the payload as a string. Only suitable for values that are
// about to leave the process anyway, such as CLI output.
func (v *Value) Text() (string, error) {
	b, err := v.buf.CopyBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Destroy releases the payload. Idempotent; any later access fails.
func (v *Value) Destroy() {
	v.buf.Destroy()
}
