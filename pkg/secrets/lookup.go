package secrets

import "context"

type lookupState struct {
	value *Value
}

// Lookup finds one secret matching attrs and returns its decrypted value,
// unlocking the item first if every match is locked. Finding nothing is a
// normal outcome, not an error. Returns immediately; done (optional) runs
// on the dispatch goroutine at completion.
func (s *Service) Lookup(ctx context.Context, sc *Schema, attrs Attributes, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindLookup, &lookupState{}, done)
	s.postOp(op, func() { s.startLookup(op, sc, attrs) })
	return op
}

func (s *Service) startLookup(op *Operation, sc *Schema, attrs Attributes) {
	st := op.state.(*lookupState)
	if !s.checkAttributes(op, sc, attrs) {
		return
	}
	if op.cancelled() {
		op.finish()
		return
	}

	deliver := func(v *Value, err error) {
		if err != nil {
			op.fail(err)
		} else {
			st.value = v
		}
		op.finish()
	}

	s.searchPathsStep(op, matchAttributes(sc, attrs), func(unlocked, locked []ObjectPath, err error) {
		switch {
		case err != nil:
			op.fail(err)
			op.finish()

		case len(unlocked) > 0:
			s.fetchSecretStep(op, unlocked[0], deliver)

		case len(locked) > 0:
			// Unlock the first locked match, then fetch whatever the
			// service reports unlocked. An unlock that succeeds is not
			// rolled back if the fetch then fails.
			s.xlockStep(op, "Unlock", locked[:1], func(resolved []ObjectPath, err error) {
				switch {
				case err != nil:
					op.fail(err)
					op.finish()
				case len(resolved) > 0:
					s.fetchSecretStep(op, resolved[0], deliver)
				default:
					op.finish()
				}
			})

		default:
			// No match; completes with no value.
			op.finish()
		}
	})
}

// LookupFinish extracts the found value, or nil if no secret matched. The
// caller owns the value and must Destroy it.
func (s *Service) LookupFinish(op *Operation) (*Value, error) {
	st, ok := opState[*lookupState](op, KindLookup)
	if !ok {
		return nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return nil, err
	}
	v := st.value
	st.value = nil
	return v, nil
}

// fetchSecretStep retrieves and decodes the secret for one item path as a
// sub-step: session first, then a single-path batched get, then the
// codec. A path absent from the reply (a locked item) yields a nil value.
func (s *Service) fetchSecretStep(op *Operation, path ObjectPath, cont func(*Value, error)) {
	s.ensureSession(op, func(session ObjectPath, err error) {
		if err != nil {
			cont(nil, err)
			return
		}
		if cerr := op.ctx.Err(); cerr != nil {
			cont(nil, ErrCancelled)
			return
		}
		invoke(s, "GetSecrets", func() (map[ObjectPath]WireSecret, error) {
			return s.transport.GetSecrets(op.ctx, []ObjectPath{path}, session)
		}, func(wire map[ObjectPath]WireSecret, err error) {
			if err != nil {
				cont(nil, callError("GetSecrets", path, err))
				return
			}
			ws, ok := wire[path]
			if !ok {
				cont(nil, nil)
				return
			}
			v, err := s.codec.Decode(ws)
			if err != nil {
				cont(nil, callError("DecodeSecret", path, err))
				return
			}
			cont(v, nil)
		})
	})
}
