package secrets

import "context"

// xlockPhase tracks the lock/unlock state machine:
// Calling → {Done | AwaitingPrompt} → Done.
type xlockPhase int

const (
	phaseCalling xlockPhase = iota
	phaseAwaitingPrompt
	phaseDone
)

// xlockState accumulates one lock or unlock operation. objects is the
// caller-supplied path→proxy table built at call time (nil for the
// path-level entry points); resolved is the final outcome path list.
type xlockState struct {
	phase    xlockPhase
	objects  map[ObjectPath]Proxy
	resolved []ObjectPath
}

// Lock locks items or collections. The service may be unable to lock
// items individually and lock a whole collection instead, so the outcome
// list can differ from the input. Returns immediately; done (optional)
// runs on the dispatch goroutine at completion.
func (s *Service) Lock(ctx context.Context, objects []Proxy, done func(*Operation)) *Operation {
	return s.xlockObjects(ctx, KindLock, "Lock", objects, done)
}

// LockFinish extracts the outcome: the number of paths the service
// reported locked, and those of the caller's objects among them. Paths
// with no matching input object are counted but not returned. The count
// is -1 on error.
func (s *Service) LockFinish(op *Operation) (int, []Proxy, error) {
	return s.xlockObjectsFinish(op, KindLock)
}

// Unlock unlocks items or collections, driving any confirmation prompt
// the service raises. Returns immediately; done (optional) runs on the
// dispatch goroutine at completion.
func (s *Service) Unlock(ctx context.Context, objects []Proxy, done func(*Operation)) *Operation {
	return s.xlockObjects(ctx, KindUnlock, "Unlock", objects, done)
}

// UnlockFinish extracts the outcome the way LockFinish does.
func (s *Service) UnlockFinish(op *Operation) (int, []Proxy, error) {
	return s.xlockObjectsFinish(op, KindUnlock)
}

// LockPaths is the path-level form of Lock.
func (s *Service) LockPaths(ctx context.Context, paths []ObjectPath, done func(*Operation)) *Operation {
	return s.xlock(ctx, KindLockPaths, "Lock", nil, paths, done)
}

// LockPathsFinish extracts the locked path list and its length, -1 on error.
func (s *Service) LockPathsFinish(op *Operation) (int, []ObjectPath, error) {
	return s.xlockPathsFinish(op, KindLockPaths)
}

// UnlockPaths is the path-level form of Unlock.
func (s *Service) UnlockPaths(ctx context.Context, paths []ObjectPath, done func(*Operation)) *Operation {
	return s.xlock(ctx, KindUnlockPaths, "Unlock", nil, paths, done)
}

// UnlockPathsFinish extracts the unlocked path list and its length, -1 on error.
func (s *Service) UnlockPathsFinish(op *Operation) (int, []ObjectPath, error) {
	return s.xlockPathsFinish(op, KindUnlockPaths)
}

func (s *Service) xlockObjects(ctx context.Context, kind Kind, method string, objects []Proxy, done func(*Operation)) *Operation {
	table := make(map[ObjectPath]Proxy, len(objects))
	paths := make([]ObjectPath, 0, len(objects))
	for _, o := range objects {
		paths = append(paths, o.Path())
		table[o.Path()] = o
	}
	return s.xlock(ctx, kind, method, table, paths, done)
}

func (s *Service) xlock(ctx context.Context, kind Kind, method string, table map[ObjectPath]Proxy, paths []ObjectPath, done func(*Operation)) *Operation {
	st := &xlockState{phase: phaseCalling, objects: table}
	op := s.newOperation(ctx, kind, st, done)
	s.postOp(op, func() {
		s.xlockStep(op, method, paths, func(resolved []ObjectPath, err error) {
			st.phase = phaseDone
			if err != nil {
				op.fail(err)
			} else {
				st.resolved = resolved
			}
			op.finish()
		})
	})
	return op
}

// xlockStep drives one batch Lock or Unlock call through the prompt
// machine as a sub-step. When the reply carries a prompt, the prompt's
// resolved path list is the outcome and the immediate list from the
// initiating call is discarded — the two are never merged. cont runs on
// the dispatch goroutine.
func (s *Service) xlockStep(op *Operation, method string, paths []ObjectPath, cont func(resolved []ObjectPath, err error)) {
	if err := op.ctx.Err(); err != nil {
		cont(nil, ErrCancelled)
		return
	}
	call := s.transport.Lock
	if method == "Unlock" {
		call = s.transport.Unlock
	}
	type reply struct {
		immediate []ObjectPath
		prompt    ObjectPath
	}
	invoke(s, method, func() (reply, error) {
		done, prompt, err := call(op.ctx, paths)
		return reply{done, prompt}, err
	}, func(r reply, err error) {
		if err != nil {
			cont(nil, callError(method, NoObject, err))
			return
		}
		if !r.prompt.IsSet() {
			cont(r.immediate, nil)
			return
		}
		if st, ok := op.state.(*xlockState); ok {
			st.phase = phaseAwaitingPrompt
		}
		s.chasePrompt(op, r.prompt, func(res PromptResult, err error) {
			if err != nil {
				cont(nil, err)
				return
			}
			cont(res.Paths, nil)
		})
	})
}

func (s *Service) xlockPathsFinish(op *Operation, kind Kind) (int, []ObjectPath, error) {
	st, ok := opState[*xlockState](op, kind)
	if !ok {
		return -1, nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return -1, nil, err
	}
	return len(st.resolved), st.resolved, nil
}

func (s *Service) xlockObjectsFinish(op *Operation, kind Kind) (int, []Proxy, error) {
	st, ok := opState[*xlockState](op, kind)
	if !ok {
		return -1, nil, ErrWrongResultType
	}
	if err := op.takeError(); err != nil {
		return -1, nil, err
	}
	out := make([]Proxy, 0, len(st.resolved))
	for _, p := range st.resolved {
		if o, ok := st.objects[p]; ok {
			out = append(out, o)
		}
	}
	return len(st.resolved), out, nil
}
