package qauth

import (
	"context"
	"fmt"
	"time"
)

// loginQR drives the QR exchange: show the code, poll until the user
// confirms on another device, then finish the login. An expired code is
// re-issued by the server as a fresh StepQRImage and re-shown through the
// same display; there is still only one challenge outstanding.
func (e *Engine) loginQR(ctx context.Context) error {
	if e.qrDisplay == nil {
		return e.failResolver(ctx, ChallengeQR, 0, ErrNoQRDisplay)
	}

	step, err := e.conn.LoginQRCode(ctx)
	if err != nil {
		return e.failChallenge(ctx, ChallengeQR, 0, err)
	}

	var deadline <-chan time.Time
	if e.config.QR.Timeout > 0 {
		timer := time.NewTimer(e.config.QR.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if step == nil {
			return e.failChallenge(ctx, ChallengeQR, 0, fmt.Errorf("connection returned nil step"))
		}

		switch step.Kind {
		case StepSuccess:
			return e.finish(ctx, 0)

		case StepRejected:
			e.metricInc(MetricLoginFailure)
			rejected := &RejectedError{Code: step.Code, Message: step.Message}
			e.emitAudit(ctx, auditEventLoginFailure, false, ChallengeQR.String(), 0, rejected, nil)
			return rejected

		case StepQRConfirmed:
			next, err := e.conn.FinishQRCode(ctx)
			if err != nil {
				return e.failChallenge(ctx, ChallengeQR, 0, err)
			}
			// Device lock or rejection may still follow the confirmed scan.
			return e.challengeLoop(ctx, next, 0)

		case StepQRImage:
			e.metricInc(MetricQRChallenge)
			e.emitAudit(ctx, auditEventChallengeRaised, true, ChallengeQR.String(), 0, nil, nil)

			if err := e.qrDisplay.Show(ctx, step.QRImage); err != nil {
				return e.failResolver(ctx, ChallengeQR, 0, err)
			}
			e.emitAudit(ctx, auditEventChallengeResolved, true, ChallengeQR.String(), 0, nil, nil)

		case StepQRWaiting:
			// Scan still pending; fall through to the next poll.

		default:
			return e.failChallenge(ctx, ChallengeQR, 0, fmt.Errorf("unexpected step kind %d", step.Kind))
		}

		select {
		case <-ctx.Done():
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, ChallengeQR.String(), 0, ctx.Err(), nil)
			return ctx.Err()
		case <-deadline:
			return e.failChallenge(ctx, ChallengeQR, 0, ErrQRTimeout)
		case <-time.After(e.config.QR.PollInterval):
		}

		step, err = e.conn.PollQRCode(ctx)
		if err != nil {
			return e.failChallenge(ctx, ChallengeQR, 0, err)
		}
	}
}
