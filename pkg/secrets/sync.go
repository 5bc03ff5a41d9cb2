package secrets

import "context"

// Blocking counterparts to the async entry points. Each starts the async
// form, waits for the operation's completion signal on the calling
// goroutine, and runs the matching finish. Cancellation arrives through
// ctx and completes the operation with ErrCancelled, so the wait always
// ends. Never call these from a completion callback or from the dispatch
// goroutine; that deadlocks the service.

// SearchSync searches and loads matching items, blocking until done.
func (s *Service) SearchSync(ctx context.Context, sc *Schema, attrs Attributes) (unlocked, locked []*Item, err error) {
	op := s.Search(ctx, sc, attrs, nil)
	op.Wait()
	return s.SearchFinish(op)
}

// SearchPathsSync searches for matching paths, blocking until done.
func (s *Service) SearchPathsSync(ctx context.Context, sc *Schema, attrs Attributes) (unlocked, locked []ObjectPath, err error) {
	op := s.SearchPaths(ctx, sc, attrs, nil)
	op.Wait()
	return s.SearchPathsFinish(op)
}

// LockSync locks objects, blocking until done.
func (s *Service) LockSync(ctx context.Context, objects []Proxy) (int, []Proxy, error) {
	op := s.Lock(ctx, objects, nil)
	op.Wait()
	return s.LockFinish(op)
}

// UnlockSync unlocks objects, blocking until done.
func (s *Service) UnlockSync(ctx context.Context, objects []Proxy) (int, []Proxy, error) {
	op := s.Unlock(ctx, objects, nil)
	op.Wait()
	return s.UnlockFinish(op)
}

// LockPathsSync locks paths, blocking until done.
func (s *Service) LockPathsSync(ctx context.Context, paths []ObjectPath) (int, []ObjectPath, error) {
	op := s.LockPaths(ctx, paths, nil)
	op.Wait()
	return s.LockPathsFinish(op)
}

// UnlockPathsSync unlocks paths, blocking until done.
func (s *Service) UnlockPathsSync(ctx context.Context, paths []ObjectPath) (int, []ObjectPath, error) {
	op := s.UnlockPaths(ctx, paths, nil)
	op.Wait()
	return s.UnlockPathsFinish(op)
}

// GetSecretsSync retrieves values for items, blocking until done.
func (s *Service) GetSecretsSync(ctx context.Context, items []*Item) (map[*Item]*Value, error) {
	op := s.GetSecrets(ctx, items, nil)
	op.Wait()
	return s.GetSecretsFinish(op)
}

// StoreSync stores a secret, blocking until done.
func (s *Service) StoreSync(ctx context.Context, sc *Schema, attrs Attributes, collection ObjectPath, label string, value *Value) error {
	op := s.Store(ctx, sc, attrs, collection, label, value, nil)
	op.Wait()
	return s.StoreFinish(op)
}

// LookupSync looks up one secret, blocking until done. Returns nil with
// no error when nothing matched.
func (s *Service) LookupSync(ctx context.Context, sc *Schema, attrs Attributes) (*Value, error) {
	op := s.Lookup(ctx, sc, attrs, nil)
	op.Wait()
	return s.LookupFinish(op)
}

// RemoveSync removes one matching secret, blocking until done.
func (s *Service) RemoveSync(ctx context.Context, sc *Schema, attrs Attributes) (bool, error) {
	op := s.Remove(ctx, sc, attrs, nil)
	op.Wait()
	return s.RemoveFinish(op)
}

// ReadAliasSync resolves an alias to its collection, blocking until done.
func (s *Service) ReadAliasSync(ctx context.Context, name string) (*Collection, error) {
	op := s.ReadAlias(ctx, name, nil)
	op.Wait()
	return s.ReadAliasFinish(op)
}

// SetAliasSync assigns a collection to an alias, blocking until done.
func (s *Service) SetAliasSync(ctx context.Context, name string, collection *Collection) error {
	op := s.SetAlias(ctx, name, collection, nil)
	op.Wait()
	return s.SetAliasFinish(op)
}

// SetAliasPathSync assigns a collection path to an alias, blocking until
// done.
func (s *Service) SetAliasPathSync(ctx context.Context, name string, path ObjectPath) error {
	op := s.SetAliasPath(ctx, name, path, nil)
	op.Wait()
	return s.SetAliasFinish(op)
}
