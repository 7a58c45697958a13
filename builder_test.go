package qauth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestBuildRequiresConnection(t *testing.T) {
	_, err := New().
		WithAuthentication(QRCode()).
		Build()
	if !errors.Is(err, ErrConnectionRequired) {
		t.Fatalf("expected ErrConnectionRequired, got %v", err)
	}
}

func TestBuildRequiresAuthentication(t *testing.T) {
	_, err := New().
		WithConnection(newFakeConnection()).
		Build()
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestBuildRejectsNilSuppliers(t *testing.T) {
	cases := []struct {
		name string
		auth Authentication
	}{
		{"custom supplier", CustomUinPassword(nil)},
		{"custom md5 supplier", CustomUinPasswordMD5(nil)},
		{"decision callback", CallBack(nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().
				WithConnection(newFakeConnection()).
				WithAuthentication(tc.auth).
				Build()
			if !errors.Is(err, ErrSupplierRequired) {
				t.Fatalf("expected ErrSupplierRequired, got %v", err)
			}
		})
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Login.MaxChallengeRounds = 0

	_, err := New().
		WithConfig(cfg).
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode()).
		Build()
	if err == nil {
		t.Fatal("expected invalid config to fail Build")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	builder := New().
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildAppliesInteractiveDefaults(t *testing.T) {
	engine, err := New().
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, ok := engine.qrDisplay.(PrintQRToConsole); !ok {
		t.Fatalf("expected console QR display by default, got %T", engine.qrDisplay)
	}
	if _, ok := engine.slider.(AndroidHelperSlider); !ok {
		t.Fatalf("expected helper slider by default, got %T", engine.slider)
	}
	if engine.deviceLock.viaSMS() {
		t.Fatal("expected URL device lock verification by default")
	}
}

func TestBuildResolvesDeviceSource(t *testing.T) {
	raw := `{"product":"qauth","android_id":"00aa11bb22cc33dd","imei":"123456789012347"}`

	engine, err := New().
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode()).
		WithDeviceSource(DeviceJSON(raw)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	device := engine.Device()
	if device == nil {
		t.Fatal("expected resolved device")
	}
	if device.AndroidID != "00aa11bb22cc33dd" {
		t.Fatalf("expected parsed android id, got %q", device.AndroidID)
	}
}

func TestBuildWithoutDeviceSourceLeavesDeviceNil(t *testing.T) {
	engine, err := New().
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.Device() != nil {
		t.Fatal("expected nil device without a source")
	}
}

func TestWithSessionFileWiresFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")

	engine, err := New().
		WithConnection(newFakeConnection()).
		WithAuthentication(QRCode()).
		WithSessionFile(path).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.store.Save(context.Background(), []byte("tok")); err != nil {
		t.Fatalf("save through wired store failed: %v", err)
	}
	data, err := engine.store.Load(context.Background())
	if err != nil || string(data) != "tok" {
		t.Fatalf("expected file-backed roundtrip, got %q, %v", data, err)
	}
}
