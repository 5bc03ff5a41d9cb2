package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/keyfold/pkg/secrets"
)

const (
	itemA = secrets.ObjectPath("/org/freedesktop/secrets/collection/c/1")
	itemB = secrets.ObjectPath("/org/freedesktop/secrets/collection/c/2")
	itemC = secrets.ObjectPath("/org/freedesktop/secrets/collection/c/3")
)

func seedItems(f *fixture) {
	f.transport.itemInfos[itemA] = secrets.ItemInfo{Label: "one", Attributes: secrets.Attributes{"host": "a"}}
	f.transport.itemInfos[itemB] = secrets.ItemInfo{Label: "two", Attributes: secrets.Attributes{"host": "b"}}
	f.transport.itemInfos[itemC] = secrets.ItemInfo{Label: "three", Locked: true}
}

func TestSearchLoadsEveryMatch(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA, itemB}
	f.transport.searchLocked = []secrets.ObjectPath{itemC}

	unlocked, locked, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)

	require.Len(t, unlocked, 2)
	require.Len(t, locked, 1)
	// Result order follows the service's path lists.
	assert.Equal(t, "one", unlocked[0].Label())
	assert.Equal(t, "two", unlocked[1].Label())
	assert.Equal(t, "three", locked[0].Label())
	assert.True(t, locked[0].Locked())
	assert.Equal(t, 3, f.transport.callCount("ItemProperties"))
}

func TestSearchNothingMatches(t *testing.T) {
	f := newFixture(t)

	unlocked, locked, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "nope"})
	require.NoError(t, err)
	assert.Empty(t, unlocked)
	assert.Empty(t, locked)
	assert.Zero(t, f.transport.callCount("ItemProperties"))
}

func TestSearchReturnsOneProxyPerPath(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}

	first, _, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	second, _, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	// The live proxy is reused, so the second search issues no load.
	assert.Same(t, first[0], second[0])
	assert.Equal(t, 1, f.transport.callCount("ItemProperties"))
}

func TestSearchPartialLoadFailure(t *testing.T) {
	f := newFixture(t)
	seedItems(f)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA, itemB}
	f.transport.itemErrs[itemB] = assert.AnError

	unlocked, locked, err := f.svc.SearchSync(context.Background(), nil, secrets.Attributes{"host": "a"})

	// One load failing does not abort its siblings: the loadable items
	// come back alongside the error.
	require.Error(t, err)
	assert.Empty(t, locked)
	require.Len(t, unlocked, 1)
	assert.Equal(t, itemA, unlocked[0].Path())
}

func TestSearchSchemaNameInjected(t *testing.T) {
	f := newFixture(t)
	sc := &secrets.Schema{Name: "org.example.Password"}

	_, _, err := f.svc.SearchPathsSync(context.Background(), sc, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.Equal(t, "org.example.Password", f.transport.lastMatch[secrets.AttrSchema])
	// The caller's map is not mutated.
	assert.NotContains(t, secrets.Attributes{"host": "a"}, secrets.AttrSchema)

	sc.DontMatchName = true
	_, _, err = f.svc.SearchPathsSync(context.Background(), sc, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.NotContains(t, f.transport.lastMatch, secrets.AttrSchema)
}

func TestSearchValidationFailureIsLocal(t *testing.T) {
	f := newFixture(t, secrets.WithValidator(rejectingValidator{err: secrets.ErrValidationFailed}))
	sc := &secrets.Schema{Name: "org.example.Password"}

	_, _, err := f.svc.SearchSync(context.Background(), sc, secrets.Attributes{"bogus": "x"})
	assert.ErrorIs(t, err, secrets.ErrValidationFailed)
	assert.Empty(t, f.transport.callLog())
}

func TestSearchPathsSplitsLockState(t *testing.T) {
	f := newFixture(t)
	f.transport.searchUnlocked = []secrets.ObjectPath{itemA}
	f.transport.searchLocked = []secrets.ObjectPath{itemB, itemC}

	unlocked, locked, err := f.svc.SearchPathsSync(context.Background(), nil, secrets.Attributes{"host": "a"})
	require.NoError(t, err)
	assert.Equal(t, []secrets.ObjectPath{itemA}, unlocked)
	assert.Equal(t, []secrets.ObjectPath{itemB, itemC}, locked)
	// Paths only; no proxies are loaded.
	assert.Zero(t, f.transport.callCount("ItemProperties"))
}

func TestSearchFinishWrongKind(t *testing.T) {
	f := newFixture(t)

	op := f.svc.SearchPaths(context.Background(), nil, secrets.Attributes{"host": "a"}, nil)
	op.Wait()
	_, _, err := f.svc.SearchFinish(op)
	assert.ErrorIs(t, err, secrets.ErrWrongResultType)
}

func TestSearchCancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.svc.SearchSync(ctx, nil, secrets.Attributes{"host": "a"})
	assert.ErrorIs(t, err, secrets.ErrCancelled)
	assert.Empty(t, f.transport.callLog())
}

func TestSearchCompletionCallback(t *testing.T) {
	f := newFixture(t)

	got := make(chan secrets.Kind, 1)
	op := f.svc.SearchPaths(context.Background(), nil, secrets.Attributes{"host": "a"}, func(op *secrets.Operation) {
		got <- op.Kind()
	})
	op.Wait()
	assert.Equal(t, secrets.KindSearchPaths, <-got)
}
