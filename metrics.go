package qauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter or histogram.
type MetricID uint16

const (
	// MetricResumeAttempt counts session resume attempts.
	MetricResumeAttempt MetricID = iota
	// MetricResumeSuccess counts logins satisfied by a saved session.
	MetricResumeSuccess
	// MetricResumeFailure counts resume attempts the server rejected.
	MetricResumeFailure
	// MetricLoginSuccess counts fully authenticated attempts.
	MetricLoginSuccess
	// MetricLoginFailure counts terminal failures.
	MetricLoginFailure
	// MetricAbandoned counts attempts ended by the Abandon selection.
	MetricAbandoned
	// MetricDecisionRedirect counts decision-callback re-evaluations.
	MetricDecisionRedirect
	// MetricQRChallenge counts QR codes issued by the server.
	MetricQRChallenge
	// MetricSliderChallenge counts slider captchas raised.
	MetricSliderChallenge
	// MetricDeviceLockChallenge counts device-lock verifications raised.
	MetricDeviceLockChallenge
	// MetricSMSChallenge counts device-lock SMS codes requested.
	MetricSMSChallenge
	// MetricResolverFailure counts caller-supplied resolver failures.
	MetricResolverFailure
	// MetricSessionSaved counts credentials persisted after success.
	MetricSessionSaved
	// MetricSessionSaveFailed counts persistence failures after success.
	MetricSessionSaveFailed
	// MetricSessionRemoved counts stale credentials discarded after a
	// failed resume.
	MetricSessionRemoved
	// MetricAuthenticateLatency is the wall-clock histogram for one whole
	// Authenticate call, human interaction included.
	MetricAuthenticateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the engine's in-process counter set. All methods are safe for
// concurrent use; a nil or disabled Metrics is a no-op.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] set honoring cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counting is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the Authenticate latency histogram is active.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records one Authenticate duration into the latency histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricAuthenticateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a consistent-enough copy of all counters for export.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAuthenticateLatency].buckets[i])
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
	}

	return s
}

// Authenticate spans human interaction, so the buckets run from sub-second
// (resume) out to minutes (QR scan on another device).
func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 100:
		return 0
	case ms <= 500:
		return 1
	case ms <= 1000:
		return 2
	case ms <= 5000:
		return 3
	case ms <= 15000:
		return 4
	case ms <= 60000:
		return 5
	case ms <= 300000:
		return 6
	default:
		return 7
	}
}
