// Package secrets orchestrates composite operations against a remote,
// object-capability secret storage service.
//
// The service itself lives in a separate trusted process and is reached
// through three collaborator contracts: a Transport that issues individual
// remote calls, a SessionCodec that sets up the transfer session and
// encodes or decodes secret payloads, and a Prompter that drives the
// interactive confirmation steps the service may demand mid-operation.
// This package turns one logical request — "find every secret matching
// these attributes", "unlock these items", "look up one secret and decrypt
// it" — into the right sequence of remote calls, deduplicates proxy
// identities, aggregates fan-out results, and chases prompts to
// resolution.
//
// Every composite operation comes in three forms: a non-blocking entry
// point that returns an *Operation immediately, a matching Finish call
// that extracts the outcome once the operation is terminal, and a blocking
// Sync form built from the two. All operation state is confined to a
// single dispatch goroutine owned by the Service; completion callbacks run
// there and must not block or call the Sync forms.
package secrets
