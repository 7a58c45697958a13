// Package qauth drives the login lifecycle of a messaging-platform client:
// session resume, credential and QR strategies, and interactive challenge
// resolution (slider captcha, device lock, SMS), with pluggable session
// persistence.
//
// The package is policy-free: one call to [Engine.Authenticate] runs exactly
// one attempt, and a failed resolver fails the attempt instead of being
// retried internally. Retry, backoff, and strategy fallback belong to the
// caller.
//
// # Architecture boundaries
//
// qauth is the public surface. It exposes [Engine], [Builder], [Config],
// [Authentication], and the resolver interfaces ([QRDisplay],
// [SliderResolver], [DeviceLockVerification]). Session persistence lives in
// the session sub-package behind [session.Store]; typed media variants live
// in the media sub-package. Platform glue (opening URLs, rendering images to
// a terminal) lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Speak the wire protocol. All network interaction goes through the
//     caller-supplied [Connection]; the engine only sequences its calls.
//   - Interpret session credential bytes. The blob from
//     [Connection.SessionToken] is stored and replayed opaquely.
//   - Block without a context. Every operation that can wait on the network
//     or on a human takes a context.Context and honors its cancellation.
//
// # Concurrency contract
//
// An Engine runs one attempt at a time: [Engine.Authenticate] must not be
// called concurrently with itself. Everything else — audit draining,
// metrics reads, [Engine.Close] — is safe from any goroutine.
package qauth
