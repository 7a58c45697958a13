package qauth

import (
	"errors"
	"fmt"
)

var (
	// ErrAbandoned is the terminal outcome of an Abandon selection: deliberate,
	// with no network activity, and distinguishable from a failure so callers
	// can choose "exit" over "retry with a different strategy".
	ErrAbandoned = errors.New("authentication abandoned")
	// ErrConnectionRequired is returned by Build when no connection was supplied.
	ErrConnectionRequired = errors.New("connection required")
	// ErrAuthenticationRequired is returned by Build when no selection was supplied.
	ErrAuthenticationRequired = errors.New("authentication selection required")
	// ErrSupplierRequired is returned by Build when a custom selection carries a nil supplier or callback.
	ErrSupplierRequired = errors.New("credential supplier required")
	// ErrDecisionLoop is returned when decision callbacks keep returning further
	// decision callbacks past the bounded re-evaluation budget.
	ErrDecisionLoop = errors.New("decision callback returned another decision callback")
	// ErrChallengeRounds is returned when the server raises more sequential
	// challenges than the configured bound allows.
	ErrChallengeRounds = errors.New("challenge round limit exceeded")
	// ErrQRTimeout is returned when the QR code is not confirmed within the
	// configured window.
	ErrQRTimeout = errors.New("qr code confirmation timed out")
	// ErrNoSessionToken is returned when the connection reports success but
	// cannot produce a session credential to persist.
	ErrNoSessionToken = errors.New("connection produced no session token")
	// ErrNoQRDisplay is returned when a QR login is requested and no display
	// strategy was configured.
	ErrNoQRDisplay = errors.New("no qr display configured")
	// ErrNoSliderResolver is returned when the server raises a slider captcha
	// and no resolver was configured.
	ErrNoSliderResolver = errors.New("no slider resolver configured")
	// ErrNoDeviceLockVerification is returned when the server raises a device
	// lock and no verification strategy was configured.
	ErrNoDeviceLockVerification = errors.New("no device lock verification configured")
)

// ChallengeKind identifies which server-issued verification step an error
// originated from.
type ChallengeKind uint8

const (
	// ChallengeUnknown marks an error that arose outside any identifiable
	// verification step, such as a nil or malformed step from the
	// connection.
	ChallengeUnknown ChallengeKind = iota
	// ChallengeQR is the scan-and-confirm QR code step.
	ChallengeQR
	// ChallengeSlider is the slider captcha step.
	ChallengeSlider
	// ChallengeDeviceLock is the device-lock confirmation step (URL form).
	ChallengeDeviceLock
	// ChallengeSMS is the device-lock confirmation step (SMS code form).
	ChallengeSMS
)

// String returns the challenge kind name used in errors and audit events.
func (k ChallengeKind) String() string {
	switch k {
	case ChallengeUnknown:
		return "unknown"
	case ChallengeQR:
		return "qr"
	case ChallengeSlider:
		return "slider"
	case ChallengeDeviceLock:
		return "device_lock"
	case ChallengeSMS:
		return "sms"
	default:
		return "unknown"
	}
}

// ResolverError reports that a caller-supplied resolver failed while handling
// a challenge. The engine never retries a failed resolver; retry policy
// belongs to the caller.
type ResolverError struct {
	Kind ChallengeKind
	Err  error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s resolver failed: %v", e.Kind, e.Err)
}

// Unwrap returns the resolver's underlying error.
func (e *ResolverError) Unwrap() error {
	return e.Err
}

// ChallengeError reports that a challenge exchange against the connection
// failed: the submission was rejected or the call itself errored. The
// originating cause is preserved.
type ChallengeError struct {
	Kind ChallengeKind
	Err  error
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("%s challenge failed: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ChallengeError) Unwrap() error {
	return e.Err
}

// RejectedError is the server's final refusal of a login attempt, carrying
// the protocol-level code and message verbatim.
type RejectedError struct {
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login rejected (code %d)", e.Code)
	}
	return fmt.Sprintf("login rejected (code %d): %s", e.Code, e.Message)
}
