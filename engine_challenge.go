package qauth

import (
	"context"
	"fmt"
)

// challengeLoop advances a started login exchange to a terminal outcome,
// resolving server challenges strictly one at a time in the order raised.
// The round bound guards against a server that keeps raising challenges; it
// is not a retry mechanism.
func (e *Engine) challengeLoop(ctx context.Context, step *LoginStep, uin int64) error {
	for round := 0; round < e.config.Login.MaxChallengeRounds; round++ {
		if step == nil {
			return e.failChallenge(ctx, ChallengeUnknown, uin, fmt.Errorf("connection returned nil step"))
		}

		switch step.Kind {
		case StepSuccess:
			return e.finish(ctx, uin)

		case StepRejected:
			e.metricInc(MetricLoginFailure)
			rejected := &RejectedError{Code: step.Code, Message: step.Message}
			e.emitAudit(ctx, auditEventLoginFailure, false, "", uin, rejected, nil)
			return rejected

		case StepSlider:
			next, err := e.resolveSlider(ctx, step, uin)
			if err != nil {
				return err
			}
			step = next

		case StepDeviceLock:
			next, err := e.resolveDeviceLock(ctx, step, uin)
			if err != nil {
				return err
			}
			step = next

		default:
			// QR steps surface only inside the QR flow; anything else here
			// means the connection violated the exchange contract.
			return e.failChallenge(ctx, ChallengeUnknown, uin, fmt.Errorf("unexpected step kind %d", step.Kind))
		}
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", uin, ErrChallengeRounds, nil)
	return ErrChallengeRounds
}

func (e *Engine) resolveSlider(ctx context.Context, step *LoginStep, uin int64) (*LoginStep, error) {
	e.metricInc(MetricSliderChallenge)
	e.emitAudit(ctx, auditEventChallengeRaised, true, ChallengeSlider.String(), uin, nil, nil)

	if e.slider == nil {
		return nil, e.failResolver(ctx, ChallengeSlider, uin, ErrNoSliderResolver)
	}

	ticket, err := e.slider.Resolve(ctx, step.VerifyURL)
	if err != nil {
		return nil, e.failResolver(ctx, ChallengeSlider, uin, err)
	}
	e.emitAudit(ctx, auditEventChallengeResolved, true, ChallengeSlider.String(), uin, nil, nil)

	next, err := e.conn.SubmitSliderTicket(ctx, ticket)
	if err != nil {
		return nil, e.failChallenge(ctx, ChallengeSlider, uin, err)
	}
	return next, nil
}

func (e *Engine) resolveDeviceLock(ctx context.Context, step *LoginStep, uin int64) (*LoginStep, error) {
	e.metricInc(MetricDeviceLockChallenge)
	e.emitAudit(ctx, auditEventChallengeRaised, true, ChallengeDeviceLock.String(), uin, nil, func() map[string]string {
		return map[string]string{"sms_phone": step.SMSPhone}
	})

	if e.deviceLock.viaSMS() {
		return e.resolveDeviceLockSMS(ctx, uin)
	}
	return e.resolveDeviceLockURL(ctx, step, uin)
}

func (e *Engine) resolveDeviceLockURL(ctx context.Context, step *LoginStep, uin int64) (*LoginStep, error) {
	if err := e.deviceLock.urlConfirmer().Confirm(ctx, step.VerifyURL); err != nil {
		return nil, e.failResolver(ctx, ChallengeDeviceLock, uin, err)
	}
	e.emitAudit(ctx, auditEventChallengeResolved, true, ChallengeDeviceLock.String(), uin, nil, nil)

	next, err := e.conn.ConfirmDeviceLock(ctx)
	if err != nil {
		return nil, e.failChallenge(ctx, ChallengeDeviceLock, uin, err)
	}
	return next, nil
}

func (e *Engine) resolveDeviceLockSMS(ctx context.Context, uin int64) (*LoginStep, error) {
	if e.deviceLock.codes == nil {
		return nil, e.failResolver(ctx, ChallengeSMS, uin, ErrNoDeviceLockVerification)
	}

	e.metricInc(MetricSMSChallenge)
	sent, err := e.conn.RequestSMSCode(ctx)
	if err != nil {
		return nil, e.failChallenge(ctx, ChallengeSMS, uin, err)
	}
	switch {
	case sent == nil:
		return nil, e.failChallenge(ctx, ChallengeSMS, uin, fmt.Errorf("connection returned nil step"))
	case sent.Kind == StepRejected:
		// The server refused to dispatch a code, typically an SMS rate
		// limit. No code exists, so neither the supplier nor a submission
		// may run.
		e.metricInc(MetricLoginFailure)
		rejected := &RejectedError{Code: sent.Code, Message: sent.Message}
		e.emitAudit(ctx, auditEventLoginFailure, false, ChallengeSMS.String(), uin, rejected, nil)
		return nil, rejected
	case sent.Kind != StepSMSSent:
		return nil, e.failChallenge(ctx, ChallengeSMS, uin, fmt.Errorf("unexpected step kind %d", sent.Kind))
	}

	code, err := e.deviceLock.codes.Get(ctx)
	if err != nil {
		return nil, e.failResolver(ctx, ChallengeSMS, uin, err)
	}
	e.emitAudit(ctx, auditEventChallengeResolved, true, ChallengeSMS.String(), uin, nil, nil)

	next, err := e.conn.SubmitSMSCode(ctx, code)
	if err != nil {
		return nil, e.failChallenge(ctx, ChallengeSMS, uin, err)
	}
	return next, nil
}

func (e *Engine) finish(ctx context.Context, uin int64) error {
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, "", uin, nil, nil)
	e.saveSession(ctx, uin)
	return nil
}

func (e *Engine) failResolver(ctx context.Context, kind ChallengeKind, uin int64, err error) error {
	e.metricInc(MetricResolverFailure)
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventResolverFailure, false, kind.String(), uin, err, nil)
	e.emitAudit(ctx, auditEventLoginFailure, false, kind.String(), uin, err, nil)
	return &ResolverError{Kind: kind, Err: err}
}

func (e *Engine) failChallenge(ctx context.Context, kind ChallengeKind, uin int64, err error) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, kind.String(), uin, err, nil)
	return &ChallengeError{Kind: kind, Err: err}
}
