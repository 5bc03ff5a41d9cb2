package secrets

import "context"

type removeState struct {
	deleted bool
}

// Remove deletes one secret matching attrs. When several items match,
// only the first — preferring unlocked matches — is deleted. Matching
// nothing completes successfully with nothing deleted. Returns
// immediately; done (optional) runs on the dispatch goroutine at
// completion.
func (s *Service) Remove(ctx context.Context, sc *Schema, attrs Attributes, done func(*Operation)) *Operation {
	op := s.newOperation(ctx, KindRemove, &removeState{}, done)
	s.postOp(op, func() { s.startRemove(op, sc, attrs) })
	return op
}

func (s *Service) startRemove(op *Operation, sc *Schema, attrs Attributes) {
	st := op.state.(*removeState)
	if !s.checkAttributes(op, sc, attrs) {
		return
	}
	if op.cancelled() {
		op.finish()
		return
	}
	s.searchPathsStep(op, matchAttributes(sc, attrs), func(unlocked, locked []ObjectPath, err error) {
		if err != nil {
			op.fail(err)
			op.finish()
			return
		}
		var target ObjectPath
		switch {
		case len(unlocked) > 0:
			target = unlocked[0]
		case len(locked) > 0:
			target = locked[0]
		default:
			// Nothing to delete.
			op.finish()
			return
		}
		if op.cancelled() {
			op.finish()
			return
		}
		invoke(s, "DeleteItem", func() (ObjectPath, error) {
			return s.transport.DeleteItem(op.ctx, target)
		}, func(prompt ObjectPath, err error) {
			if err != nil {
				op.fail(callError("DeleteItem", target, err))
				op.finish()
				return
			}
			if !prompt.IsSet() {
				st.deleted = true
				op.finish()
				return
			}
			s.chasePrompt(op, prompt, func(_ PromptResult, err error) {
				if err != nil {
					op.fail(err)
				} else {
					st.deleted = true
				}
				op.finish()
			})
		})
	})
}

// RemoveFinish reports whether an item was deleted. False with a nil
// error means nothing matched.
func (s *Service) RemoveFinish(op *Operation) (bool, error) {
	st, ok := opState[*removeState](op, KindRemove)
	if !ok {
		return false, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return false, err
	}
	return st.deleted, nil
}
