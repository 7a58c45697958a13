package qauth

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	if cfg.Login.MaxChallengeRounds != 8 {
		t.Fatalf("unexpected challenge round default: %d", cfg.Login.MaxChallengeRounds)
	}
	if cfg.Login.MaxDecisionRedirects != 1 {
		t.Fatalf("unexpected redirect default: %d", cfg.Login.MaxDecisionRedirects)
	}
	if !cfg.Login.RemoveSessionOnResumeFailure {
		t.Fatal("expected stale session removal on by default")
	}
	if cfg.QR.PollInterval != 2*time.Second {
		t.Fatalf("unexpected poll interval default: %v", cfg.QR.PollInterval)
	}
	if cfg.QR.Timeout != 3*time.Minute {
		t.Fatalf("unexpected qr timeout default: %v", cfg.QR.Timeout)
	}
	if cfg.Audit.Enabled || cfg.Metrics.Enabled {
		t.Fatal("expected observability off by default")
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero challenge rounds", func(c *Config) { c.Login.MaxChallengeRounds = 0 }},
		{"negative redirects", func(c *Config) { c.Login.MaxDecisionRedirects = -1 }},
		{"zero poll interval", func(c *Config) { c.QR.PollInterval = 0 }},
		{"negative qr timeout", func(c *Config) { c.QR.Timeout = -time.Second }},
		{"timeout below poll interval", func(c *Config) {
			c.QR.PollInterval = 10 * time.Second
			c.QR.Timeout = time.Second
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestZeroQRTimeoutDisablesBound(t *testing.T) {
	cfg := defaultConfig()
	cfg.QR.Timeout = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero timeout must be allowed: %v", err)
	}
}
