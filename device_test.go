package qauth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDeviceIdentifiersWellFormed(t *testing.T) {
	d, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}

	if len(d.AndroidID) != 16 {
		t.Fatalf("expected 16 hex chars of android id, got %q", d.AndroidID)
	}
	if len(d.IMEI) != 15 {
		t.Fatalf("expected 15-digit IMEI, got %q", d.IMEI)
	}
	if !luhnValid(d.IMEI) {
		t.Fatalf("expected Luhn-valid IMEI, got %q", d.IMEI)
	}

	parts := strings.Split(d.MACAddress, ":")
	if len(parts) != 6 {
		t.Fatalf("expected colon-separated MAC, got %q", d.MACAddress)
	}
	// Locally administered, unicast.
	first := hexByte(t, parts[0])
	if first&0x02 == 0 {
		t.Fatalf("expected locally administered MAC, got %q", d.MACAddress)
	}
	if first&0x01 != 0 {
		t.Fatalf("expected unicast MAC, got %q", d.MACAddress)
	}
}

func TestNewDeviceIsRandom(t *testing.T) {
	a, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	b, err := NewDevice()
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	if a.AndroidID == b.AndroidID {
		t.Fatal("expected distinct android ids")
	}
	if a.IMEI == b.IMEI {
		t.Fatal("expected distinct IMEIs")
	}
}

func TestDeviceFileGeneratesOnceAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	src := DeviceFile(path)

	first, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected identity persisted: %v", err)
	}

	second, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if *first != *second {
		t.Fatal("expected stable identity across resolves")
	}
}

func TestDeviceFileRejectsCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	if _, err := DeviceFile(path).Resolve(context.Background()); err == nil {
		t.Fatal("expected corrupt device file to fail")
	}
}

func TestDeviceJSON(t *testing.T) {
	raw := `{"product":"qauth","model":"pixel","imei":"123456789012347"}`
	d, err := DeviceJSON(raw).Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if d.Model != "pixel" {
		t.Fatalf("expected parsed model, got %q", d.Model)
	}

	if _, err := DeviceJSON("nope").Resolve(context.Background()); err == nil {
		t.Fatal("expected invalid json to fail")
	}
}

func luhnValid(digits string) bool {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		// Odd positions (0-based) are doubled, matching generation.
		if i%2 == 1 && i != len(digits)-1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

func hexByte(t *testing.T, s string) byte {
	t.Helper()
	var v byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | (c - '0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | (c - 'a' + 10)
		default:
			t.Fatalf("unexpected hex char %q", c)
		}
	}
	return v
}
