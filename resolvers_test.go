package qauth

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)
	img.Set(1, 1, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestAndroidHelperSliderReadsTicket(t *testing.T) {
	var out strings.Builder
	slider := AndroidHelperSlider{
		In:  strings.NewReader("  ticket-xyz \n"),
		Out: &out,
	}

	ticket, err := slider.Resolve(context.Background(), "https://captcha.example/slide")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if ticket != "ticket-xyz" {
		t.Fatalf("expected trimmed ticket, got %q", ticket)
	}
	if !strings.Contains(out.String(), "https://captcha.example/slide") {
		t.Fatal("expected captcha url in the instructions")
	}
}

func TestAndroidHelperSliderRejectsEmptyTicket(t *testing.T) {
	slider := AndroidHelperSlider{
		In:  strings.NewReader("\n"),
		Out: &strings.Builder{},
	}

	if _, err := slider.Resolve(context.Background(), "https://captcha.example"); err == nil {
		t.Fatal("expected empty ticket to fail")
	}
}

func TestAndroidHelperSliderHonorsCancellation(t *testing.T) {
	blocked, unblock := blockingReader()
	defer unblock()

	slider := AndroidHelperSlider{
		In:  blocked,
		Out: &strings.Builder{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := slider.Resolve(ctx, "https://captcha.example")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestConsoleURLConfirmWaitsForAck(t *testing.T) {
	var out strings.Builder
	confirm := ConsoleURLConfirm{
		In:  strings.NewReader("\n"),
		Out: &out,
	}

	if err := confirm.Confirm(context.Background(), "https://verify.example/lock"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !strings.Contains(out.String(), "https://verify.example/lock") {
		t.Fatal("expected confirmation url in the prompt")
	}
}

func TestPrintQRToConsoleRendersBlocks(t *testing.T) {
	var out strings.Builder
	display := PrintQRToConsole{Writer: &out, MaxWidth: 40}

	if err := display.Show(context.Background(), testPNG(t)); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected rendering output")
	}
}

func TestPrintQRToConsoleRejectsGarbage(t *testing.T) {
	display := PrintQRToConsole{Writer: &strings.Builder{}}
	if err := display.Show(context.Background(), []byte("not a png")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSaveQRToFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	display := SaveQRToFile{Path: path}

	if err := display.Show(context.Background(), []byte("first")); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if err := display.Show(context.Background(), []byte("second")); err != nil {
		t.Fatalf("second show failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected the latest code, got %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestQRDisplayFuncAdapter(t *testing.T) {
	var got []byte
	display := QRDisplayFunc(func(_ context.Context, png []byte) error {
		got = png
		return nil
	})

	if err := display.Show(context.Background(), []byte("png")); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if string(got) != "png" {
		t.Fatalf("adapter lost the image: %q", got)
	}
}

// blockingReader returns a reader whose Read blocks until unblock is called.
func blockingReader() (*os.File, func()) {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	return r, func() {
		_ = w.Close()
		_ = r.Close()
	}
}
