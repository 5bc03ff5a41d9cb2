package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/keyfold/pkg/secrets"
)

func TestRemovePrefersUnlockedMatch(t *testing.T) {
	f := newFixture(t)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemB}
	f.transport.searchLocked = []secrets.ObjectPath{itemA}

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, itemB, f.transport.deletedItem)
	assert.Equal(t, 1, f.transport.callCount("DeleteItem"))
}

func TestRemoveFallsBackToLockedMatch(t *testing.T) {
	f := newFixture(t)
	f.transport.searchLocked = []secrets.ObjectPath{itemA, itemB}

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.True(t, removed)
	// Only the first match is deleted.
	assert.Equal(t, itemA, f.transport.deletedItem)
	assert.Equal(t, 1, f.transport.callCount("DeleteItem"))
}

func TestRemoveNothingMatched(t *testing.T) {
	f := newFixture(t)

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "nope"})
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Zero(t, f.transport.callCount("DeleteItem"))
}

func TestRemoveChasesDeletionPrompt(t *testing.T) {
	f := newFixture(t)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	f.transport.deletePrompt = "/org/freedesktop/secrets/prompt/p1"
	f.prompter.result = secrets.PromptResult{Path: secrets.NoObject}

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, f.prompter.callCount())
}

func TestRemoveDeletionPromptDismissed(t *testing.T) {
	f := newFixture(t)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	f.transport.deletePrompt = "/org/freedesktop/secrets/prompt/p1"
	f.prompter.result = secrets.PromptResult{Dismissed: true}

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	assert.ErrorIs(t, err, secrets.ErrPromptDismissed)
	assert.False(t, removed)
}

func TestRemoveDeleteError(t *testing.T) {
	f := newFixture(t)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	f.transport.deleteErr = assert.AnError

	removed, err := f.svc.RemoveSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.Error(t, err)
	assert.False(t, removed)

	var remote *secrets.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "DeleteItem", remote.Method)
	assert.Equal(t, itemA, remote.Path)
}
