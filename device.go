package qauth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Device is the client's persistent device fingerprint. The protocol layer
// includes it in the login handshake; the server binds device-lock state to
// it, so a stable identity across restarts avoids repeated verification.
type Device struct {
	Product    string `json:"product"`
	Model      string `json:"model"`
	Board      string `json:"board"`
	Brand      string `json:"brand"`
	AndroidID  string `json:"android_id"`
	BootID     string `json:"boot_id"`
	MACAddress string `json:"mac_address"`
	IMEI       string `json:"imei"`
}

// NewDevice generates a fresh device identity with random identifiers.
func NewDevice() (*Device, error) {
	var (
		android = uuid.New()
		boot    = uuid.New()
		mac     = uuid.New()
		imei    = uuid.New()
	)

	return &Device{
		Product:    "qauth",
		Model:      "qauth",
		Board:      "qauth",
		Brand:      "qauth",
		AndroidID:  hex.EncodeToString(android[:8]),
		BootID:     boot.String(),
		MACAddress: macFromBytes(mac[:6]),
		IMEI:       imeiFromBytes(imei[:14]),
	}, nil
}

// macFromBytes formats a locally-administered unicast MAC address.
func macFromBytes(b []byte) string {
	b[0] = b[0]&0xfe | 0x02
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

// imeiFromBytes builds a 15-digit IMEI: 14 digits derived from b plus a
// Luhn check digit.
func imeiFromBytes(b []byte) string {
	digits := make([]byte, 15)
	sum := 0
	for i := 0; i < 14; i++ {
		d := int(b[i] % 10)
		digits[i] = byte('0' + d)
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits[14] = byte('0' + (10-sum%10)%10)
	return string(digits)
}

type deviceSourceKind uint8

const (
	deviceFromFile deviceSourceKind = iota
	deviceFromJSON
)

// DeviceSource says where the device identity comes from: a JSON file that
// is created on first use, or a raw JSON document supplied by the embedder.
type DeviceSource struct {
	kind deviceSourceKind
	path string
	raw  string
}

// DeviceFile sources the identity from a JSON file, generating and
// persisting a fresh one when the file does not exist.
func DeviceFile(path string) DeviceSource {
	return DeviceSource{kind: deviceFromFile, path: path}
}

// DeviceJSON sources the identity from a raw JSON document. Nothing is
// persisted; the embedder owns durability.
func DeviceJSON(raw string) DeviceSource {
	return DeviceSource{kind: deviceFromJSON, raw: raw}
}

// Resolve produces the device identity from the source. For a file source
// the generated identity is written atomically (temp file + rename), same
// discipline as the session file store. The zero source reads and writes
// "device.json" in the working directory.
func (s DeviceSource) Resolve(ctx context.Context) (*Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch s.kind {
	case deviceFromJSON:
		var d Device
		if err := json.Unmarshal([]byte(s.raw), &d); err != nil {
			return nil, fmt.Errorf("device json: %w", err)
		}
		return &d, nil
	default:
		path := s.path
		if path == "" {
			path = "device.json"
		}
		return resolveDeviceFile(path)
	}
}

func resolveDeviceFile(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var d Device
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("device file %s: %w", path, err)
		}
		return &d, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("device file %s: %w", path, err)
	}

	d, err := NewDevice()
	if err != nil {
		return nil, err
	}

	encoded, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("device file %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("device file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("device file %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("device file %s: %w", path, err)
	}

	return d, nil
}
