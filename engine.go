package qauth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/luoxianli/qauth/session"
)

// Engine drives one client's authentication state machine: resume a saved
// session when possible, otherwise execute the selected login strategy and
// resolve whatever challenges the server raises, strictly one at a time.
//
// Engine instances are configured through [Builder.Build] and treated as
// immutable afterwards. The engine owns the connection exclusively while an
// attempt is in flight; callers must serialize attempts against the same
// engine and session store.
type Engine struct {
	config     Config
	conn       Connection
	store      session.Store
	selection  Authentication
	qrDisplay  QRDisplay
	slider     SliderResolver
	deviceLock DeviceLockVerification
	device     *Device
	audit      *auditDispatcher
	metrics    *Metrics
}

// Close releases engine resources, draining any queued audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Device returns the resolved device identity, or nil when no device source
// was configured.
func (e *Engine) Device() *Device {
	if e == nil {
		return nil
	}
	return e.device
}

// AuditDropped returns the number of audit events discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authenticate runs one authentication attempt to a terminal outcome.
//
// A saved session is tried first; on resume failure (or no saved session)
// the configured selection is executed, resolving server challenges
// sequentially through the configured resolvers. The engine never retries
// internally: every terminal failure is returned once, with the stage and
// challenge kind preserved, and retry policy — including removing the
// session and falling back to another strategy — belongs to the caller.
//
// A nil return means authenticated. [ErrAbandoned] means the Abandon
// selection (or a decision callback returning it) ended the attempt
// deliberately, with no network activity for a direct Abandon. Other errors
// are failures: [*ResolverError], [*ChallengeError], [*RejectedError], or a
// wrapped connection error.
//
// After success the negotiated credential is saved to the session store.
// A save failure does not downgrade the outcome: Authenticate still returns
// nil, and the failure is logged, audited (session_save_failed), and
// counted (MetricSessionSaveFailed).
//
// Cancelling ctx aborts the attempt, including any in-flight resolver wait;
// no partial session is persisted.
func (e *Engine) Authenticate(ctx context.Context) error {
	if e == nil {
		return ErrConnectionRequired
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}()
	}

	resumed, err := e.tryResume(ctx)
	if err != nil {
		return err
	}
	if resumed {
		return nil
	}

	return e.executeSelection(ctx, e.selection, 0)
}

// InvalidateSession discards the persisted session credential, forcing the
// next attempt through a full login. Used for explicit logout.
func (e *Engine) InvalidateSession(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	err := e.store.Remove(ctx)
	if err == nil {
		e.metricInc(MetricSessionRemoved)
	}
	e.emitAudit(ctx, auditEventSessionRemoved, err == nil, "", 0, err, nil)
	return err
}

// tryResume attempts to re-establish the session from the store. It returns
// (true, nil) on success, (false, nil) when the attempt should fall through
// to the selected strategy, and a non-nil error only for cancellation.
func (e *Engine) tryResume(ctx context.Context) (bool, error) {
	if e.store == nil {
		return false, nil
	}

	token, err := e.store.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		// A broken store must not block a fresh login.
		log.Print("qauth: session load failed")
		e.emitAudit(ctx, auditEventResumeAttempt, false, "", 0, err, func() map[string]string {
			return map[string]string{"reason": "load_failed"}
		})
		return false, nil
	}
	if token == nil {
		return false, nil
	}

	e.metricInc(MetricResumeAttempt)
	e.emitAudit(ctx, auditEventResumeAttempt, true, "", 0, nil, nil)

	if err := e.conn.ResumeSession(ctx, token); err != nil {
		if ctx.Err() != nil {
			e.metricInc(MetricLoginFailure)
			return false, ctx.Err()
		}

		e.metricInc(MetricResumeFailure)
		e.emitAudit(ctx, auditEventResumeFailure, false, "", 0, err, nil)

		if e.config.Login.RemoveSessionOnResumeFailure {
			if removeErr := e.store.Remove(ctx); removeErr != nil {
				log.Print("qauth: stale session removal failed")
			} else {
				e.metricInc(MetricSessionRemoved)
				e.emitAudit(ctx, auditEventSessionRemoved, true, "", 0, nil, func() map[string]string {
					return map[string]string{"reason": "resume_failure"}
				})
			}
		}
		return false, nil
	}

	e.metricInc(MetricResumeSuccess)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventResumeSuccess, true, "", 0, nil, nil)

	// The server may have rotated the credential during resume.
	e.saveSession(ctx, 0)

	return true, nil
}

func (e *Engine) executeSelection(ctx context.Context, sel Authentication, redirects int) error {
	switch sel.kind {
	case authAbandon:
		e.metricInc(MetricAbandoned)
		e.emitAudit(ctx, auditEventAbandoned, false, "", 0, nil, nil)
		return ErrAbandoned

	case authCallBack:
		if sel.decide == nil {
			e.metricInc(MetricLoginFailure)
			return ErrSupplierRequired
		}
		if redirects > e.config.Login.MaxDecisionRedirects {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", 0, ErrDecisionLoop, nil)
			return ErrDecisionLoop
		}
		if redirects > 0 {
			e.metricInc(MetricDecisionRedirect)
			e.emitAudit(ctx, auditEventDecisionRedirect, true, "", 0, nil, nil)
		}

		next := sel.decide(e.conn)
		return e.executeSelection(ctx, next, redirects+1)

	case authQRCode:
		e.emitAudit(ctx, auditEventStrategySelected, true, "", 0, nil, func() map[string]string {
			return map[string]string{"strategy": "qrcode"}
		})
		return e.loginQR(ctx)

	case authUinPassword:
		e.emitAudit(ctx, auditEventStrategySelected, true, "", sel.uin, nil, func() map[string]string {
			return map[string]string{"strategy": "uin_password"}
		})
		return e.loginPassword(ctx, sel.uin, sel.password)

	case authCustomUinPassword:
		if sel.supplier == nil {
			e.metricInc(MetricLoginFailure)
			return ErrSupplierRequired
		}
		e.emitAudit(ctx, auditEventStrategySelected, true, "", 0, nil, func() map[string]string {
			return map[string]string{"strategy": "custom_uin_password"}
		})

		uin, err := sel.supplier.Uin(ctx)
		if err != nil {
			return e.failSupplier(ctx, err)
		}
		pw, err := sel.supplier.Password(ctx)
		if err != nil {
			return e.failSupplier(ctx, err)
		}
		return e.loginPassword(ctx, uin, PlainPassword(pw))

	case authCustomUinPasswordMD5:
		if sel.supplierMD5 == nil {
			e.metricInc(MetricLoginFailure)
			return ErrSupplierRequired
		}
		e.emitAudit(ctx, auditEventStrategySelected, true, "", 0, nil, func() map[string]string {
			return map[string]string{"strategy": "custom_uin_password_md5"}
		})

		uin, err := sel.supplierMD5.Uin(ctx)
		if err != nil {
			return e.failSupplier(ctx, err)
		}
		digest, err := sel.supplierMD5.PasswordMD5(ctx)
		if err != nil {
			return e.failSupplier(ctx, err)
		}
		return e.loginPassword(ctx, uin, MD5Password(digest))

	default:
		e.metricInc(MetricLoginFailure)
		return fmt.Errorf("unknown authentication selection")
	}
}

func (e *Engine) loginPassword(ctx context.Context, uin int64, password Password) error {
	step, err := e.conn.LoginPassword(ctx, uin, password)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", uin, err, nil)
		return fmt.Errorf("password login: %w", err)
	}
	return e.challengeLoop(ctx, step, uin)
}

func (e *Engine) failSupplier(ctx context.Context, err error) error {
	e.metricInc(MetricResolverFailure)
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventResolverFailure, false, "", 0, err, func() map[string]string {
		return map[string]string{"resolver": "credential_supplier"}
	})
	return fmt.Errorf("credential supplier: %w", err)
}

// saveSession persists the negotiated credential. Failures are reported
// through log, audit, and metrics but never fail the attempt: the caller is
// authenticated whether or not the save landed.
func (e *Engine) saveSession(ctx context.Context, uin int64) {
	if e.store == nil {
		return
	}

	token, err := e.conn.SessionToken(ctx)
	if err == nil && len(token) == 0 {
		err = ErrNoSessionToken
	}
	if err == nil {
		err = e.store.Save(ctx, token)
	}

	if err != nil {
		log.Print("qauth: session save failed")
		e.metricInc(MetricSessionSaveFailed)
		e.emitAudit(ctx, auditEventSessionSaveFailed, false, "", uin, err, nil)
		return
	}

	e.metricInc(MetricSessionSaved)
	e.emitAudit(ctx, auditEventSessionSaved, true, "", uin, nil, nil)
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	challenge string,
	uin int64,
	err error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Uin:       uin,
		Challenge: challenge,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	e.audit.Emit(ctx, event)
}
