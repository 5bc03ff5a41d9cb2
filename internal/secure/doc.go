// Package secure provides memory-protected storage for secret payloads.
//
// Secret bytes received from the service live in an encrypted memguard
// enclave while at rest in process memory. Plaintext only exists inside a
// locked buffer for the duration of a With callback, and is wiped when the
// callback returns. Call memguard.Purge in a defer at process exit for
// complete cleanup of all enclave key material.
package secure
