package qauth

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/luoxianli/qauth/internal/imgcell"
	"github.com/luoxianli/qauth/internal/sysopen"
)

// QRDisplay surfaces a server-issued QR code image to the user. Show may
// block while the image is being presented but must return before the scan
// is confirmed; the engine polls the connection for confirmation separately.
type QRDisplay interface {
	Show(ctx context.Context, png []byte) error
}

// QRDisplayFunc adapts a function to the [QRDisplay] interface.
type QRDisplayFunc func(ctx context.Context, png []byte) error

// Show implements [QRDisplay].
func (f QRDisplayFunc) Show(ctx context.Context, png []byte) error {
	return f(ctx, png)
}

// OpenQRBySystem writes the QR image to a temporary file and opens it with
// the operating system's default image viewer.
type OpenQRBySystem struct {
	// Dir overrides the temporary directory. Empty means os.TempDir.
	Dir string
}

// Show implements [QRDisplay].
func (d OpenQRBySystem) Show(ctx context.Context, png []byte) error {
	dir := d.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := os.CreateTemp(dir, "qauth-qr-*.png")
	if err != nil {
		return fmt.Errorf("qr temp file: %w", err)
	}
	name := f.Name()

	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return fmt.Errorf("qr temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("qr temp file: %w", err)
	}

	return sysopen.Open(ctx, name)
}

// PrintQRToConsole renders the QR image as half-block text so it can be
// scanned straight off a terminal, including over SSH.
type PrintQRToConsole struct {
	// Writer receives the rendering. Nil means os.Stdout.
	Writer io.Writer
	// MaxWidth caps the rendering width in cells. Zero means 80.
	MaxWidth int
	// Invert swaps dark and light modules for dark-background terminals.
	Invert bool
}

// Show implements [QRDisplay].
func (d PrintQRToConsole) Show(ctx context.Context, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := d.Writer
	if w == nil {
		w = os.Stdout
	}
	return imgcell.Render(w, png, d.MaxWidth, d.Invert)
}

// SaveQRToFile writes the QR image to a fixed path, replacing any previous
// code atomically so watchers never observe a torn file.
type SaveQRToFile struct {
	// Path is the destination. Empty means "qrcode.png" in the working
	// directory.
	Path string
}

// Show implements [QRDisplay].
func (d SaveQRToFile) Show(ctx context.Context, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := d.Path
	if path == "" {
		path = "qrcode.png"
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save qr: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(png); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save qr: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save qr: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save qr: %w", err)
	}

	return nil
}
