package qauth

import "context"

// StepKind classifies what the server asked for next during a login
// exchange.
type StepKind uint8

const (
	// StepSuccess means the server confirmed the login.
	StepSuccess StepKind = iota
	// StepQRImage means a (new) QR code image is ready to be shown.
	StepQRImage
	// StepQRWaiting means the QR code has not been scanned and confirmed yet.
	StepQRWaiting
	// StepQRConfirmed means the user confirmed the scan; finish the exchange.
	StepQRConfirmed
	// StepSlider means the server raised a slider captcha.
	StepSlider
	// StepDeviceLock means the server raised a device-lock verification.
	StepDeviceLock
	// StepSMSSent means the server dispatched an SMS verification code.
	StepSMSSent
	// StepRejected means the server refused the attempt outright.
	StepRejected
)

// LoginStep is the connection's report of the single currently-outstanding
// server demand. Only the fields relevant to Kind are populated.
type LoginStep struct {
	Kind StepKind

	// QRImage is the rendered QR code (PNG bytes). Set for StepQRImage.
	QRImage []byte

	// VerifyURL is the captcha or device-lock confirmation URL. Set for
	// StepSlider and StepDeviceLock.
	VerifyURL string

	// SMSPhone is the masked phone number that can receive a device-lock
	// code. Set for StepDeviceLock when SMS verification is available.
	SMSPhone string

	// Code and Message carry the server's refusal for StepRejected, and an
	// optional informational message for StepDeviceLock.
	Code    int
	Message string
}

// Connection is the live, not-yet-authenticated handle supplied by the
// protocol layer. The engine owns the connection exclusively for the
// duration of one authentication attempt and drives it strictly
// sequentially: it never issues a second call while a challenge is
// outstanding.
//
// Implementations perform all wire-level encoding, cryptography, and
// framing; the engine only sequences the exchange.
type Connection interface {
	// ResumeSession re-establishes an authenticated state from a previously
	// saved credential, skipping the full handshake.
	ResumeSession(ctx context.Context, token []byte) error

	// LoginQRCode starts a QR login and returns the first step, normally
	// StepQRImage.
	LoginQRCode(ctx context.Context) (*LoginStep, error)

	// PollQRCode reports the current scan state without re-issuing the code.
	PollQRCode(ctx context.Context) (*LoginStep, error)

	// FinishQRCode completes the exchange after StepQRConfirmed. Further
	// challenges (device lock, rejection) may still follow.
	FinishQRCode(ctx context.Context) (*LoginStep, error)

	// LoginPassword starts a credential login in either password form.
	LoginPassword(ctx context.Context, uin int64, password Password) (*LoginStep, error)

	// SubmitSliderTicket submits a solved captcha ticket.
	SubmitSliderTicket(ctx context.Context, ticket string) (*LoginStep, error)

	// RequestSMSCode asks the server to dispatch a device-lock SMS code.
	RequestSMSCode(ctx context.Context) (*LoginStep, error)

	// SubmitSMSCode submits a received device-lock SMS code.
	SubmitSMSCode(ctx context.Context, code string) (*LoginStep, error)

	// ConfirmDeviceLock retries the login after the user confirmed the
	// device-lock URL out of band.
	ConfirmDeviceLock(ctx context.Context) (*LoginStep, error)

	// SessionToken exports the negotiated session credential after a
	// successful login or resume. The blob layout is owned by the protocol
	// layer and is opaque to the engine.
	SessionToken(ctx context.Context) ([]byte, error)
}
