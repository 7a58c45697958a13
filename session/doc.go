// Package session persists the opaque session credential negotiated by a
// successful login so that later reconnects can resume without a full
// handshake.
//
// The credential is a single binary blob whose internal layout is owned by
// the protocol layer; this package never inspects it. A [Store] holds at
// most one credential, and absence of a credential is an ordinary state:
// [Store.Load] reports it as (nil, nil), never as an error.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT decide when to resume,
// when to discard a stale credential, or what to do after a failed resume —
// that policy belongs to the Engine and its caller.
//
// # What this package must NOT do
//
//   - Import qauth or media (no upward imports).
//   - Interpret or validate credential bytes.
//   - Fail a caller because a credential it was asked to remove is already gone.
package session
