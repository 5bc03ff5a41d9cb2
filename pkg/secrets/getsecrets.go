package secrets

import "context"

type getSecretsState struct {
	paths  []ObjectPath
	items  map[ObjectPath]*Item
	values map[*Item]*Value
}

// GetSecrets retrieves the decrypted values for the given items in one
// batched call. Locked items are silently absent from the result; that is
// the service excluding them, not an error. Returns immediately; done
// (optional) runs on the dispatch goroutine at completion.
func (s *Service) GetSecrets(ctx context.Context, items []*Item, done func(*Operation)) *Operation {
	st := &getSecretsState{
		paths: make([]ObjectPath, 0, len(items)),
		items: make(map[ObjectPath]*Item, len(items)),
	}
	for _, it := range items {
		st.paths = append(st.paths, it.Path())
		st.items[it.Path()] = it
	}
	op := s.newOperation(ctx, KindGetSecrets, st, done)
	s.postOp(op, func() { s.startGetSecrets(op, st) })
	return op
}

func (s *Service) startGetSecrets(op *Operation, st *getSecretsState) {
	if op.cancelled() {
		op.finish()
		return
	}
	s.ensureSession(op, func(session ObjectPath, err error) {
		if err != nil {
			op.fail(err)
			op.finish()
			return
		}
		if op.cancelled() {
			op.finish()
			return
		}
		invoke(s, "GetSecrets", func() (map[ObjectPath]WireSecret, error) {
			return s.transport.GetSecrets(op.ctx, st.paths, session)
		}, func(wire map[ObjectPath]WireSecret, err error) {
			if err != nil {
				op.fail(callError("GetSecrets", NoObject, err))
				op.finish()
				return
			}
			decoded, err := s.codec.DecodeAll(wire)
			if err != nil {
				op.fail(callError("DecodeSecrets", NoObject, err))
				op.finish()
				return
			}
			// Re-key from paths to the caller's proxies. Replies for paths
			// the caller never asked about are dropped.
			st.values = make(map[*Item]*Value, len(decoded))
			for path, v := range decoded {
				if it, ok := st.items[path]; ok {
					st.values[it] = v
				} else {
					v.Destroy()
				}
			}
			op.finish()
		})
	})
}

// GetSecretsFinish extracts the item→value mapping. The caller owns every
// returned Value and must Destroy each.
func (s *Service) GetSecretsFinish(op *Operation) (map[*Item]*Value, error) {
	st, ok := opState[*getSecretsState](op, KindGetSecrets)
	if !ok {
		return nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return nil, err
	}
	values := st.values
	st.values = nil
	return values, nil
}
