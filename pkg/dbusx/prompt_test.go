package dbusx

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/keyfold/pkg/secrets"
)

func TestDecodeCompleted(t *testing.T) {
	tests := []struct {
		name    string
		body    []interface{}
		want    secrets.PromptResult
		wantErr bool
	}{
		{
			name: "dismissed",
			body: []interface{}{true, dbus.MakeVariant("")},
			want: secrets.PromptResult{Dismissed: true},
		},
		{
			name: "unlock_path_list",
			body: []interface{}{false, dbus.MakeVariant([]dbus.ObjectPath{"/org/freedesktop/secrets/collection/a"})},
			want: secrets.PromptResult{Paths: []secrets.ObjectPath{"/org/freedesktop/secrets/collection/a"}},
		},
		{
			name: "creation_single_path",
			body: []interface{}{false, dbus.MakeVariant(dbus.ObjectPath("/org/freedesktop/secrets/collection/a/1"))},
			want: secrets.PromptResult{Path: "/org/freedesktop/secrets/collection/a/1"},
		},
		{
			name: "string_result_tolerated",
			body: []interface{}{false, dbus.MakeVariant("/org/freedesktop/secrets/collection/a/1")},
			want: secrets.PromptResult{Path: "/org/freedesktop/secrets/collection/a/1"},
		},
		{
			name:    "short_body",
			body:    []interface{}{false},
			wantErr: true,
		},
		{
			name:    "flag_not_bool",
			body:    []interface{}{"no", dbus.MakeVariant("")},
			wantErr: true,
		},
		{
			name:    "unexpected_result_type",
			body:    []interface{}{false, dbus.MakeVariant(uint32(7))},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCompleted(tt.body)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWireSecretRoundTrip(t *testing.T) {
	ws := secrets.WireSecret{
		Session:     "/org/freedesktop/secrets/session/s7",
		Params:      nil,
		Data:        []byte("hunter2"),
		ContentType: secrets.ContentTypeText,
	}
	onWire := toWire(ws)
	// The protocol struct requires a byte array, never nil.
	assert.NotNil(t, onWire.Params)

	back := fromWire(onWire)
	assert.Equal(t, ws.Session, back.Session)
	assert.Equal(t, ws.Data, back.Data)
	assert.Equal(t, ws.ContentType, back.ContentType)
}
