package secrets

import "context"

// Kind tags which composite operation an Operation belongs to. Finishing
// calls check it before extracting a result.
type Kind string

const (
	KindSearch      Kind = "search"
	KindSearchPaths Kind = "search-paths"
	KindLock        Kind = "lock"
	KindUnlock      Kind = "unlock"
	KindLockPaths   Kind = "lock-paths"
	KindUnlockPaths Kind = "unlock-paths"
	KindGetSecrets  Kind = "get-secrets"
	KindStore       Kind = "store"
	KindLookup      Kind = "lookup"
	KindRemove      Kind = "remove"
	KindReadAlias   Kind = "read-alias"
	KindSetAlias    Kind = "set-alias"
)

// Operation is one in-flight composite request. It carries the request's
// context, the accumulated result for its kind, and at most one recorded
// error. State is only mutated on the owning Service's dispatch goroutine;
// callers interact with it through Done, Wait and the Service's finishing
// calls.
type Operation struct {
	svc      *Service
	ctx      context.Context
	kind     Kind
	state    any
	err      error
	callback func(*Operation)
	done     chan struct{}
	finished bool
}

func (s *Service) newOperation(ctx context.Context, kind Kind, state any, done func(*Operation)) *Operation {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Operation{
		svc:      s,
		ctx:      ctx,
		kind:     kind,
		state:    state,
		callback: done,
		done:     make(chan struct{}),
	}
}

// Kind returns the operation's kind tag.
func (op *Operation) Kind() Kind { return op.kind }

// Done returns a channel closed when the operation reaches a terminal
// state. After that the matching finish call may be invoked.
func (op *Operation) Done() <-chan struct{} { return op.done }

// Wait blocks until the operation is terminal. Cancelling the operation's
// context drives it to completion with ErrCancelled, so Wait does not need
// a separate escape hatch. Never call Wait from a completion callback.
func (op *Operation) Wait() { <-op.done }

// fail records err in the operation's error slot. Last write wins; a
// superseded error is logged so concurrently failing fan-out branches are
// not silently lost.
func (op *Operation) fail(err error) {
	if op.err != nil {
		op.svc.logger.Debug("%s: error superseded: %v", op.kind, op.err)
	}
	op.err = err
}

// finish moves the operation to its terminal state and delivers the
// completion callback. Called exactly once, on the dispatch goroutine;
// finishing twice is a programming error.
func (op *Operation) finish() {
	if op.finished {
		panic("secrets: operation finished twice")
	}
	op.finished = true
	op.svc.observeOperation(op)
	close(op.done)
	if op.callback != nil {
		op.callback(op)
	}
}

// cancelled checks the operation's context before a next step is issued.
// When it reports true the caller records nothing further and finishes.
func (op *Operation) cancelled() bool {
	if op.ctx.Err() != nil {
		op.fail(ErrCancelled)
		return true
	}
	return false
}

// takeError extracts and clears the recorded error. A finishing call must
// propagate a non-nil result and not return a success value, except where
// an operation's contract explicitly pairs partial results with an error.
func (op *Operation) takeError() error {
	err := op.err
	op.err = nil
	return err
}

// opState extracts the typed accumulated state, guarding against a finish
// call aimed at the wrong operation kind.
func opState[T any](op *Operation, kind Kind) (T, bool) {
	var zero T
	if op.kind != kind {
		return zero, false
	}
	st, ok := op.state.(T)
	return st, ok
}
