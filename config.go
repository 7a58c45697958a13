package qauth

import (
	"errors"
	"time"
)

// Config controls one engine instance. Construct via defaults (the Builder
// starts from defaultConfig) and override fields before Build; the engine
// treats its Config as immutable afterwards.
type Config struct {
	Login   LoginConfig
	QR      QRConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig bounds the login state machine.
type LoginConfig struct {
	// MaxChallengeRounds caps sequential server challenges in one attempt.
	// It guards against a misbehaving server, not against slow users.
	MaxChallengeRounds int

	// MaxDecisionRedirects caps how many times a decision callback may
	// return another decision callback before the attempt fails with
	// ErrDecisionLoop.
	MaxDecisionRedirects int

	// RemoveSessionOnResumeFailure discards the stored credential after the
	// server rejects a resume, so the next attempt starts clean.
	RemoveSessionOnResumeFailure bool
}

/*
====================================
QR CONFIG
====================================
*/

// QRConfig paces the scan-confirmation poll loop.
type QRConfig struct {
	// PollInterval is the delay between scan-state polls.
	PollInterval time.Duration

	// Timeout bounds the whole wait for the user to scan and confirm.
	// Zero disables the bound; cancellation then rests entirely on ctx.
	Timeout time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counter set.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Login: LoginConfig{
			MaxChallengeRounds:           8,
			MaxDecisionRedirects:         1,
			RemoveSessionOnResumeFailure: true,
		},
		QR: QRConfig{
			PollInterval: 2 * time.Second,
			Timeout:      3 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All sections are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate rejects configurations the engine cannot run safely.
func (c Config) Validate() error {
	if c.Login.MaxChallengeRounds <= 0 {
		return errors.New("Login.MaxChallengeRounds must be positive")
	}
	if c.Login.MaxDecisionRedirects < 0 {
		return errors.New("Login.MaxDecisionRedirects must not be negative")
	}
	if c.QR.PollInterval <= 0 {
		return errors.New("QR.PollInterval must be positive")
	}
	if c.QR.Timeout < 0 {
		return errors.New("QR.Timeout must not be negative")
	}
	if c.QR.Timeout > 0 && c.QR.Timeout < c.QR.PollInterval {
		return errors.New("QR.Timeout must not be shorter than QR.PollInterval")
	}
	return nil
}
