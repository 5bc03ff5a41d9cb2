// Package dbusx speaks the org.freedesktop.secrets D-Bus protocol. It
// provides the transport, transfer-session codec and prompter that the
// secrets engine orchestrates, keeping all bus marshaling out of the
// engine itself.
package dbusx
