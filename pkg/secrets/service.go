package secrets

import (
	"errors"
	"fmt"
	"time"

	"github.com/keyfold/keyfold/internal/logging"
	"github.com/keyfold/keyfold/internal/metrics"
)

// Service is the client-side face of the secret storage service. It owns
// the dispatch goroutine all operation state is confined to, the identity
// cache mapping object paths to live proxies, and the three collaborators
// that do the actual remote work.
type Service struct {
	transport Transport
	codec     SessionCodec
	prompter  Prompter
	validator AttributeValidator
	logger    *logging.Logger

	loop  chan func()
	quit  chan struct{}
	cache *identityCache
}

// Option configures a Service.
type Option func(*Service)

// WithLogger replaces the default (quiet) logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithValidator installs the schema validation collaborator. Without one,
// schemas only contribute their name to match attributes.
func WithValidator(v AttributeValidator) Option {
	return func(s *Service) { s.validator = v }
}

// NewService wires the collaborators together and starts the dispatch
// goroutine. Close releases it.
func NewService(t Transport, c SessionCodec, p Prompter, opts ...Option) *Service {
	s := &Service{
		transport: t,
		codec:     c,
		prompter:  p,
		logger:    logging.New(false, false),
		loop:      make(chan func()),
		quit:      make(chan struct{}),
		cache:     newIdentityCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Close stops the dispatch goroutine. Operations still in flight never
// complete, so close only after outstanding work is done; operations
// started afterwards complete immediately with ErrClosed.
func (s *Service) Close() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
}

func (s *Service) run() {
	for {
		select {
		case fn := <-s.loop:
			fn()
		case <-s.quit:
			return
		}
	}
}

// post schedules fn on the dispatch goroutine. Dropped silently once the
// service is closed.
func (s *Service) post(fn func()) {
	select {
	case s.loop <- fn:
	case <-s.quit:
	}
}

// postOp schedules the first step of op. Unlike mid-operation
// continuations, a fresh operation still belongs solely to its caller, so
// on a closed service it can be completed with ErrClosed right here.
func (s *Service) postOp(op *Operation, fn func()) {
	select {
	case s.loop <- fn:
	case <-s.quit:
		op.fail(ErrClosed)
		op.finish()
	}
}

// invoke runs call on its own goroutine and delivers the result back as a
// continuation on the dispatch goroutine. This is the only suspension
// mechanism in the engine: combinator bookkeeping itself never blocks.
func invoke[T any](s *Service, method string, call func() (T, error), cont func(T, error)) {
	go func() {
		start := time.Now()
		v, err := call()
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.ObserveRemoteCall(method, status, time.Since(start))
		s.post(func() { cont(v, err) })
	}()
}

func (s *Service) observeOperation(op *Operation) {
	status := "ok"
	if op.err != nil {
		status = "error"
		s.logger.Debug("%s: completed with error: %v", op.kind, op.err)
	}
	metrics.ObserveOperation(string(op.kind), status)
}

// checkAttributes runs the configured validator. A failure is a local
// precondition violation: it is logged through the ordinary logging
// channel and the operation completes with ErrValidationFailed before any
// remote call is issued.
func (s *Service) checkAttributes(op *Operation, sc *Schema, attrs Attributes) bool {
	if sc == nil || s.validator == nil {
		return true
	}
	err := s.validator.Validate(sc, attrs)
	if err == nil {
		return true
	}
	s.logger.Warn("attributes rejected by schema %q: %v", sc.Name, err)
	if !errors.Is(err, ErrValidationFailed) {
		err = fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	op.fail(err)
	op.finish()
	return false
}

// chasePrompt resolves a service prompt as a sub-step of op. cont runs on
// the dispatch goroutine; dismissal is reported as ErrPromptDismissed.
func (s *Service) chasePrompt(op *Operation, prompt ObjectPath, cont func(PromptResult, error)) {
	if err := op.ctx.Err(); err != nil {
		cont(PromptResult{}, ErrCancelled)
		return
	}
	invoke(s, "Prompt", func() (PromptResult, error) {
		return s.prompter.RunPrompt(op.ctx, prompt)
	}, func(res PromptResult, err error) {
		switch {
		case err != nil:
			metrics.ObservePrompt("failed")
			cont(PromptResult{}, callError("Prompt", prompt, err))
		case res.Dismissed:
			metrics.ObservePrompt("dismissed")
			cont(PromptResult{}, ErrPromptDismissed)
		default:
			metrics.ObservePrompt("completed")
			cont(res, nil)
		}
	})
}

// ensureSession establishes the transfer session as a sub-step of op.
func (s *Service) ensureSession(op *Operation, cont func(ObjectPath, error)) {
	if err := op.ctx.Err(); err != nil {
		cont(NoObject, ErrCancelled)
		return
	}
	invoke(s, "EnsureSession", func() (ObjectPath, error) {
		return s.codec.Ensure(op.ctx)
	}, func(session ObjectPath, err error) {
		if err != nil {
			cont(NoObject, callError("EnsureSession", NoObject, err))
			return
		}
		cont(session, nil)
	})
}
