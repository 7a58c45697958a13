package internaldefs

import (
	qauth "github.com/luoxianli/qauth"
)

// CounterDef binds one engine counter to its stable exported name.
type CounterDef struct {
	ID   qauth.MetricID
	Name string
	Help string
}

// HistogramDef binds one engine histogram to its stable exported name.
type HistogramDef struct {
	ID   qauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a fixed order so exporter
// output stays deterministic.
var CounterDefs = []CounterDef{
	{ID: qauth.MetricResumeAttempt, Name: "qauth_resume_attempt_total", Help: "Session resume attempts."},
	{ID: qauth.MetricResumeSuccess, Name: "qauth_resume_success_total", Help: "Logins satisfied by a saved session."},
	{ID: qauth.MetricResumeFailure, Name: "qauth_resume_failure_total", Help: "Resume attempts the server rejected."},
	{ID: qauth.MetricLoginSuccess, Name: "qauth_login_success_total", Help: "Fully authenticated attempts."},
	{ID: qauth.MetricLoginFailure, Name: "qauth_login_failure_total", Help: "Terminal login failures."},
	{ID: qauth.MetricAbandoned, Name: "qauth_abandoned_total", Help: "Attempts ended by the Abandon selection."},
	{ID: qauth.MetricDecisionRedirect, Name: "qauth_decision_redirect_total", Help: "Decision callback re-evaluations."},
	{ID: qauth.MetricQRChallenge, Name: "qauth_qr_challenge_total", Help: "QR codes issued by the server."},
	{ID: qauth.MetricSliderChallenge, Name: "qauth_slider_challenge_total", Help: "Slider captchas raised."},
	{ID: qauth.MetricDeviceLockChallenge, Name: "qauth_device_lock_challenge_total", Help: "Device-lock verifications raised."},
	{ID: qauth.MetricSMSChallenge, Name: "qauth_sms_challenge_total", Help: "Device-lock SMS codes requested."},
	{ID: qauth.MetricResolverFailure, Name: "qauth_resolver_failure_total", Help: "Caller-supplied resolver failures."},
	{ID: qauth.MetricSessionSaved, Name: "qauth_session_saved_total", Help: "Credentials persisted after success."},
	{ID: qauth.MetricSessionSaveFailed, Name: "qauth_session_save_failed_total", Help: "Credential persistence failures after success."},
	{ID: qauth.MetricSessionRemoved, Name: "qauth_session_removed_total", Help: "Stale credentials discarded."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: qauth.MetricAuthenticateLatency, Name: "qauth_authenticate_latency_seconds", Help: "Authenticate latency histogram, human interaction included."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// engine's internal bucketing.
var HistogramBounds = []string{
	"0.1",
	"0.5",
	"1",
	"5",
	"15",
	"60",
	"300",
	"+Inf",
}

// HistogramBoundSuffix is the instrument-name-safe spelling of each bound.
var HistogramBoundSuffix = []string{
	"0_1",
	"0_5",
	"1",
	"5",
	"15",
	"60",
	"300",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts, the
// form both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
