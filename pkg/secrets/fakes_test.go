package secrets_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/keyfold/keyfold/pkg/secrets"
)

// fakeTransport is a scriptable in-memory secret service. Replies are
// configured per method; every call is appended to a shared log so tests
// can assert on call order and count.
type fakeTransport struct {
	mu    sync.Mutex
	calls []string

	searchUnlocked []secrets.ObjectPath
	searchLocked   []secrets.ObjectPath
	searchErr      error
	lastMatch      secrets.Attributes
	onSearch       func()

	itemInfos map[secrets.ObjectPath]secrets.ItemInfo
	itemErrs  map[secrets.ObjectPath]error

	lockResolved   []secrets.ObjectPath
	lockPrompt     secrets.ObjectPath
	unlockResolved []secrets.ObjectPath
	unlockPrompt   secrets.ObjectPath
	unlockErr      error

	secretsReply  map[secrets.ObjectPath]secrets.WireSecret
	getSecretsErr error

	createdItem  secrets.ObjectPath
	createPrompt secrets.ObjectPath
	createErr    error
	lastCreate   struct {
		collection secrets.ObjectPath
		label      string
		attrs      secrets.Attributes
		secret     secrets.WireSecret
		replace    bool
	}

	deletedItem  secrets.ObjectPath
	deletePrompt secrets.ObjectPath
	deleteErr    error

	aliasPath    secrets.ObjectPath
	aliasErr     error
	lastSetAlias secrets.ObjectPath

	collectionInfos map[secrets.ObjectPath]secrets.CollectionInfo
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		itemInfos:       make(map[secrets.ObjectPath]secrets.ItemInfo),
		itemErrs:        make(map[secrets.ObjectPath]error),
		secretsReply:    make(map[secrets.ObjectPath]secrets.WireSecret),
		collectionInfos: make(map[secrets.ObjectPath]secrets.CollectionInfo),
		aliasPath:       secrets.NoObject,
	}
}

func (f *fakeTransport) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeTransport) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTransport) callCount(method string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeTransport) SearchItems(ctx context.Context, attrs secrets.Attributes) ([]secrets.ObjectPath, []secrets.ObjectPath, error) {
	f.record("SearchItems")
	f.mu.Lock()
	f.lastMatch = attrs
	f.mu.Unlock()
	if f.onSearch != nil {
		f.onSearch()
	}
	if f.searchErr != nil {
		return nil, nil, f.searchErr
	}
	return f.searchUnlocked, f.searchLocked, nil
}

func (f *fakeTransport) Lock(ctx context.Context, paths []secrets.ObjectPath) ([]secrets.ObjectPath, secrets.ObjectPath, error) {
	f.record("Lock")
	return f.lockResolved, orNoObject(f.lockPrompt), nil
}

func (f *fakeTransport) Unlock(ctx context.Context, paths []secrets.ObjectPath) ([]secrets.ObjectPath, secrets.ObjectPath, error) {
	f.record("Unlock")
	if f.unlockErr != nil {
		return nil, secrets.NoObject, f.unlockErr
	}
	return f.unlockResolved, orNoObject(f.unlockPrompt), nil
}

func (f *fakeTransport) GetSecrets(ctx context.Context, paths []secrets.ObjectPath, session secrets.ObjectPath) (map[secrets.ObjectPath]secrets.WireSecret, error) {
	f.record("GetSecrets")
	if f.getSecretsErr != nil {
		return nil, f.getSecretsErr
	}
	out := make(map[secrets.ObjectPath]secrets.WireSecret)
	for _, p := range paths {
		if ws, ok := f.secretsReply[p]; ok {
			out[p] = ws
		}
	}
	return out, nil
}

func (f *fakeTransport) CreateItem(ctx context.Context, collection secrets.ObjectPath, label string, attrs secrets.Attributes, secret secrets.WireSecret, replace bool) (secrets.ObjectPath, secrets.ObjectPath, error) {
	f.record("CreateItem")
	if f.createErr != nil {
		return secrets.NoObject, secrets.NoObject, f.createErr
	}
	f.mu.Lock()
	f.lastCreate.collection = collection
	f.lastCreate.label = label
	f.lastCreate.attrs = attrs
	f.lastCreate.secret = secret
	f.lastCreate.replace = replace
	f.mu.Unlock()
	return f.createdItem, orNoObject(f.createPrompt), nil
}

func (f *fakeTransport) DeleteItem(ctx context.Context, item secrets.ObjectPath) (secrets.ObjectPath, error) {
	f.record("DeleteItem")
	if f.deleteErr != nil {
		return secrets.NoObject, f.deleteErr
	}
	f.mu.Lock()
	f.deletedItem = item
	f.mu.Unlock()
	return orNoObject(f.deletePrompt), nil
}

func (f *fakeTransport) ReadAlias(ctx context.Context, name string) (secrets.ObjectPath, error) {
	f.record("ReadAlias")
	if f.aliasErr != nil {
		return secrets.NoObject, f.aliasErr
	}
	return f.aliasPath, nil
}

func (f *fakeTransport) SetAlias(ctx context.Context, name string, collection secrets.ObjectPath) error {
	f.record("SetAlias")
	f.mu.Lock()
	f.lastSetAlias = collection
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) ItemProperties(ctx context.Context, item secrets.ObjectPath) (secrets.ItemInfo, error) {
	f.record("ItemProperties")
	if err, ok := f.itemErrs[item]; ok {
		return secrets.ItemInfo{}, err
	}
	info, ok := f.itemInfos[item]
	if !ok {
		return secrets.ItemInfo{}, fmt.Errorf("no such item %s", item)
	}
	return info, nil
}

func (f *fakeTransport) CollectionProperties(ctx context.Context, collection secrets.ObjectPath) (secrets.CollectionInfo, error) {
	f.record("CollectionProperties")
	info, ok := f.collectionInfos[collection]
	if !ok {
		return secrets.CollectionInfo{}, fmt.Errorf("no such collection %s", collection)
	}
	return info, nil
}

func orNoObject(p secrets.ObjectPath) secrets.ObjectPath {
	if p == "" {
		return secrets.NoObject
	}
	return p
}

// fakeCodec is a pass-through session codec with a counted Ensure.
type fakeCodec struct {
	mu          sync.Mutex
	session     secrets.ObjectPath
	ensureCalls int
	ensureErr   error
}

func (c *fakeCodec) Ensure(ctx context.Context) (secrets.ObjectPath, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureCalls++
	if c.ensureErr != nil {
		return secrets.NoObject, c.ensureErr
	}
	if c.session == "" {
		c.session = "/test/session/1"
	}
	return c.session, nil
}

func (c *fakeCodec) Encode(v *secrets.Value) (secrets.WireSecret, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == "" {
		return secrets.WireSecret{}, secrets.ErrNoSession
	}
	data, err := v.Bytes()
	if err != nil {
		return secrets.WireSecret{}, err
	}
	return secrets.WireSecret{
		Session:     session,
		Data:        data,
		ContentType: v.ContentType(),
	}, nil
}

func (c *fakeCodec) Decode(ws secrets.WireSecret) (*secrets.Value, error) {
	return secrets.NewValue(ws.Data, ws.ContentType), nil
}

func (c *fakeCodec) DecodeAll(in map[secrets.ObjectPath]secrets.WireSecret) (map[secrets.ObjectPath]*secrets.Value, error) {
	out := make(map[secrets.ObjectPath]*secrets.Value, len(in))
	for p, ws := range in {
		v, err := c.Decode(ws)
		if err != nil {
			return nil, err
		}
		out[p] = v
	}
	return out, nil
}

// fakePrompter resolves every prompt with one scripted result.
type fakePrompter struct {
	mu     sync.Mutex
	calls  int
	result secrets.PromptResult
	err    error
}

func (p *fakePrompter) RunPrompt(ctx context.Context, prompt secrets.ObjectPath) (secrets.PromptResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return secrets.PromptResult{}, p.err
	}
	return p.result, nil
}

func (p *fakePrompter) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// rejectingValidator fails every attribute map.
type rejectingValidator struct{ err error }

func (v rejectingValidator) Validate(sc *secrets.Schema, attrs secrets.Attributes) error {
	return v.err
}

type fixture struct {
	svc       *secrets.Service
	transport *fakeTransport
	codec     *fakeCodec
	prompter  *fakePrompter
}

func newFixture(t *testing.T, opts ...secrets.Option) *fixture {
	t.Helper()
	f := &fixture{
		transport: newFakeTransport(),
		codec:     &fakeCodec{},
		prompter:  &fakePrompter{},
	}
	f.svc = secrets.NewService(f.transport, f.codec, f.prompter, opts...)
	t.Cleanup(f.svc.Close)
	return f
}

func textSecret(data string) secrets.WireSecret {
	return secrets.WireSecret{
		Session:     "/test/session/1",
		Data:        []byte(data),
		ContentType: secrets.ContentTypeText,
	}
}
