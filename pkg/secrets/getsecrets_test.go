package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/keyfold/pkg/secrets"
)

func searchItems(t *testing.T, f *fixture) []*secrets.Item {
	t.Helper()
	unlocked, locked, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	return append(unlocked, locked...)
}

func TestGetSecretsKeyedByItem(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA, itemB}
	items := searchItems(t, f)
	require.Len(t, items, 2)

	f.transport.secretsReply[itemA] = textSecret("alpha")
	f.transport.secretsReply[itemB] = textSecret("beta")

	values, err := f.svc.GetSecretsSync(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, values, 2)
	defer func() {
		for _, v := range values {
			v.Destroy()
		}
	}()

	text, err := values[items[0]].Text()
	require.NoError(t, err)
	assert.Equal(t, "alpha", text)
	text, err = values[items[1]].Text()
	require.NoError(t, err)
	assert.Equal(t, "beta", text)

	// One session, one batched fetch.
	assert.Equal(t, 1, f.codec.ensureCalls)
	assert.Equal(t, 1, f.transport.callCount("GetSecrets"))
}

func TestGetSecretsOmitsLockedItems(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	f.transport.searchLocked = []secrets.ObjectPath{itemC}
	items := searchItems(t, f)
	require.Len(t, items, 2)

	// Only the unlocked item appears in the reply.
	f.transport.secretsReply[itemA] = textSecret("alpha")

	values, err := f.svc.GetSecretsSync(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, values, 1)
	v, ok := values[items[0]]
	require.True(t, ok)
	v.Destroy()
}

func TestGetSecretsSessionFailure(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	items := searchItems(t, f)

	f.codec.ensureErr = assert.AnError
	_, err := f.svc.GetSecretsSync(context.Background(), items)
	require.Error(t, err)
	assert.Zero(t, f.transport.callCount("GetSecrets"))
}

func TestGetSecretsFinishWrongKind(t *testing.T) {
	f := newFixture(t)

	op := f.svc.SearchPaths(context.Background(), nil, secrets.Attributes{"host": "a"}, nil)
	op.Wait()
	_, err := f.svc.GetSecretsFinish(op)
	assert.ErrorIs(t, err, secrets.ErrWrongResultType)
}
