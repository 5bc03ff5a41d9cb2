package secrets

import "context"

type readAliasState struct {
	collection *Collection
}

type setAliasState struct{}

// ReadAlias looks up which collection is assigned to an alias, such as
// "default", and loads its proxy. An alias with no assigned collection
// completes successfully with a nil collection. Returns immediately; done
// (optional) runs on the dispatch goroutine at completion.
func (s *Service) ReadAlias(ctx context.Context, name string, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindReadAlias, &readAliasState{}, done)
	s.postOp(op, func() { s.startReadAlias(op, name) })
	return op
}

func (s *Service) startReadAlias(op *Operation, name string) {
	st := op.state.(*readAliasState)
	if op.cancelled() {
		op.finish()
		return
	}
	invoke(s, "ReadAlias", func() (ObjectPath, error) {
		return s.transport.ReadAlias(op.ctx, name)
	}, func(path ObjectPath, err error) {
		if err != nil {
			op.fail(callError("ReadAlias", NoObject, err))
			op.finish()
			return
		}
		// No collection assigned to this alias.
		if !path.IsSet() {
			op.finish()
			return
		}
		if col := s.cache.collection(path); col != nil {
			st.collection = col
			op.finish()
			return
		}
		if op.cancelled() {
			op.finish()
			return
		}
		invoke(s, "CollectionProperties", func() (CollectionInfo, error) {
			return s.transport.CollectionProperties(op.ctx, path)
		}, func(info CollectionInfo, err error) {
			if err != nil {
				op.fail(callError("CollectionProperties", path, err))
			} else {
				st.collection = s.cache.registerCollection(path, newCollection(path, info))
			}
			op.finish()
		})
	})
}

// ReadAliasFinish extracts the collection assigned to the alias, or nil
// if none is.
func (s *Service) ReadAliasFinish(op *Operation) (*Collection, error) {
	st, ok := opState[*readAliasState](op, KindReadAlias)
	if !ok {
		return nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return nil, err
	}
	return st.collection, nil
}

// SetAlias assigns a collection to an alias; a nil collection removes the
// assignment. Returns immediately; done (optional) runs on the dispatch
// goroutine at completion.
func (s *Service) SetAlias(ctx context.Context, name string, collection *Collection, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindSetAlias, &setAliasState{}, done)
	path := NoObject
	if collection != nil {
		path = collection.Path()
	}
	s.postOp(op, func() { s.startSetAlias(op, name, path) })
	return op
}

// SetAliasPath is SetAlias for callers that hold a raw collection path
// instead of a loaded proxy. An unset path removes the assignment.
func (s *Service) SetAliasPath(ctx context.Context, name string, path ObjectPath, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindSetAlias, &setAliasState{}, done)
	if !path.IsSet() {
		path = NoObject
	}
	s.postOp(op, func() { s.startSetAlias(op, name, path) })
	return op
}

func (s *Service) startSetAlias(op *Operation, name string, path ObjectPath) {
	if op.cancelled() {
		op.finish()
		return
	}
	invoke(s, "SetAlias", func() (struct{}, error) {
		return struct{}{}, s.transport.SetAlias(op.ctx, name, path)
	}, func(_ struct{}, err error) {
		if err != nil {
			op.fail(callError("SetAlias", path, err))
		}
		op.finish()
	})
}

// SetAliasFinish reports whether the assignment succeeded.
func (s *Service) SetAliasFinish(op *Operation) error {
	_, ok := opState[*setAliasState](op, KindSetAlias)
	if !ok {
		return ErrWrongResultType
	}
	return op.takeError()
}
