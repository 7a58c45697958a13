package qauth

import (
	"context"
	"errors"

	"github.com/luoxianli/qauth/session"
)

// Builder assembles an [Engine]. A Builder is single-use: Build consumes it.
type Builder struct {
	config Config

	conn      Connection
	store     session.Store
	auth      Authentication
	authSet   bool
	qrDisplay QRDisplay
	qrSet     bool
	slider    SliderResolver
	sliderSet bool

	deviceLock    DeviceLockVerification
	deviceLockSet bool

	deviceSource    DeviceSource
	deviceSourceSet bool

	auditSink AuditSink

	built bool
}

// New creates a [Builder] with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithConnection sets the live protocol connection the engine drives.
func (b *Builder) WithConnection(conn Connection) *Builder {
	b.conn = conn
	return b
}

// WithSessionStore sets the credential store used for resume and save.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithSessionFile is shorthand for WithSessionStore(session.NewFileStore(path)).
func (b *Builder) WithSessionFile(path string) *Builder {
	b.store = session.NewFileStore(path)
	return b
}

// WithAuthentication sets the login strategy for the attempt.
func (b *Builder) WithAuthentication(auth Authentication) *Builder {
	b.auth = auth
	b.authSet = true
	return b
}

// WithQRDisplay sets how a server-issued QR code is surfaced. The default
// prints the code to the console.
func (b *Builder) WithQRDisplay(d QRDisplay) *Builder {
	b.qrDisplay = d
	b.qrSet = true
	return b
}

// WithSliderResolver sets how slider captchas are solved. The default
// prompts through the captcha helper instructions on the console.
func (b *Builder) WithSliderResolver(r SliderResolver) *Builder {
	b.slider = r
	b.sliderSet = true
	return b
}

// WithDeviceLockVerification sets how device-lock challenges are resolved.
// The default is URL confirmation on the console.
func (b *Builder) WithDeviceLockVerification(v DeviceLockVerification) *Builder {
	b.deviceLock = v
	b.deviceLockSet = true
	return b
}

// WithDeviceSource sets where the device identity comes from; it is
// resolved during Build, generating and persisting a fresh identity when
// the backing file does not exist yet.
func (b *Builder) WithDeviceSource(src DeviceSource) *Builder {
	b.deviceSource = src
	b.deviceSourceSet = true
	return b
}

// WithAuditSink sets the sink that receives engine audit events; enabling
// audit in the configuration without a sink discards events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the engine. A device
// source, when set, is resolved here; everything else is allocation only.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.conn == nil {
		return nil, ErrConnectionRequired
	}
	if !b.authSet {
		return nil, ErrAuthenticationRequired
	}
	if err := validateSelection(b.auth); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cfg,
		conn:      b.conn,
		store:     b.store,
		selection: b.auth,
	}

	if b.qrSet {
		engine.qrDisplay = b.qrDisplay
	} else {
		engine.qrDisplay = PrintQRToConsole{}
	}
	if b.sliderSet {
		engine.slider = b.slider
	} else {
		engine.slider = AndroidHelperSlider{}
	}
	if b.deviceLockSet {
		engine.deviceLock = b.deviceLock
	} else {
		engine.deviceLock = DeviceLockURL(nil)
	}

	if b.deviceSourceSet {
		device, err := b.deviceSource.Resolve(context.Background())
		if err != nil {
			return nil, err
		}
		engine.device = device
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}

// validateSelection rejects selections that can only fail at runtime.
// Selections returned later by a decision callback are checked by the
// engine when they execute.
func validateSelection(auth Authentication) error {
	switch auth.kind {
	case authCustomUinPassword:
		if auth.supplier == nil {
			return ErrSupplierRequired
		}
	case authCustomUinPasswordMD5:
		if auth.supplierMD5 == nil {
			return ErrSupplierRequired
		}
	case authCallBack:
		if auth.decide == nil {
			return ErrSupplierRequired
		}
	}
	return nil
}
