package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/keyfold/pkg/secrets"
)

func TestOperationsAfterCloseFail(t *testing.T) {
	f := newFixture(t)
	f.svc.Close()

	_, _, err := f.svc.SearchPathsSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	assert.ErrorIs(t, err, secrets.ErrClosed)
	assert.Empty(t, f.transport.callLog())

	_, err = f.svc.LookupSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	assert.ErrorIs(t, err, secrets.ErrClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.svc.Close()
	f.svc.Close()
}

func TestObjectPathIsSet(t *testing.T) {
	assert.False(t, secrets.ObjectPath("").IsSet())
	assert.False(t, secrets.NoObject.IsSet())
	assert.True(t, secrets.ObjectPath("/org/freedesktop/secrets/collection/work").IsSet())
}

func TestValueLifecycle(t *testing.T) {
	v := secrets.NewValue([]byte("payload"), "")
	assert.Equal(t, secrets.ContentTypeText, v.ContentType())
	assert.Equal(t, 7, v.Size())

	var seen []byte
	require.NoError(t, v.With(func(data []byte) error {
		seen = append(seen, data...)
		return nil
	}))
	assert.Equal(t, []byte("payload"), seen)

	v.Destroy()
	_, err := v.Bytes()
	assert.Error(t, err)
	// Destroy is idempotent.
	v.Destroy()
}
