package secrets

import "context"

// PromptResult is the decoded outcome of a completed prompt. Exactly one
// of Paths or Path is meaningful, depending on what kind of call raised
// the prompt: lock and unlock prompts resolve to a path list, creation and
// deletion prompts to a single path (possibly NoObject).
type PromptResult struct {
	// Dismissed reports that the user declined the prompt.
	Dismissed bool

	// Paths is the resolved path list for lock/unlock prompts.
	Paths []ObjectPath

	// Path is the resolved object for creation prompts.
	Path ObjectPath
}

// Prompter drives a service-initiated interactive confirmation to
// resolution. RunPrompt blocks until the prompt completes, is dismissed,
// or ctx is cancelled; presentation of the prompt is the service's (or a
// window system's) concern, never this library's.
type Prompter interface {
	RunPrompt(ctx context.Context, prompt ObjectPath) (PromptResult, error)
}
