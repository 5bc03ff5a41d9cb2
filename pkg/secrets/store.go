package secrets

import "context"

type storeState struct {
	item ObjectPath
}

// Store writes a secret value to the service under the given attributes
// and label. If an item with matching attributes already exists in the
// target collection it is replaced. An unset collection path targets the
// default collection; chase the service's confirmation prompt if creating
// requires one. The value remains owned by the caller. Returns
// immediately; done (optional) runs on the dispatch goroutine at
// completion.
func (s *Service) Store(ctx context.Context, sc *Schema, attrs Attributes, collection ObjectPath, label string, value *Value, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindStore, &storeState{}, done)
	s.postOp(op, func() { s.startStore(op, sc, attrs, collection, label, value) })
	return op
}

func (s *Service) startStore(op *Operation, sc *Schema, attrs Attributes, collection ObjectPath, label string, value *Value) {
	st := op.state.(*storeState)
	if !s.checkAttributes(op, sc, attrs) {
		return
	}
	if op.cancelled() {
		op.finish()
		return
	}
	match := matchAttributes(sc, attrs)

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
		wire, err := s.codec.Encode(value)
		if err != nil {
			op.fail(callError("EncodeSecret", NoObject, err))
			op.finish()
			return
		}
		type reply struct {
			item   ObjectPath
			prompt ObjectPath
		}
		invoke(s, "CreateItem", func() (reply, error) {
			item, prompt, err := s.transport.CreateItem(op.ctx, collection, label, match, wire, true)
			return reply{item, prompt}, err
		}, func(r reply, err error) {
			if err != nil {
				op.fail(callError("CreateItem", collection, err))
				op.finish()
				return
			}
			if !r.prompt.IsSet() {
				st.item = r.item
				op.finish()
				return
			}
			s.chasePrompt(op, r.prompt, func(res PromptResult, err error) {
				if err != nil {
					op.fail(err)
				} else {
					st.item = res.Path
				}
				op.finish()
			})
		})
	})
}

// StoreFinish reports whether the store succeeded.
func (s *Service) StoreFinish(op *Operation) error {
	_, ok := opState[*storeState](op, KindStore)
	if !ok {
		return ErrWrongResultType
	}
	return op.takeError()
}
