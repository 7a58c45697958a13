package qauth

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Supplier produces a value on demand, typically by prompting a human or
// calling out to an external system. Get may block for unbounded time and
// must honor ctx cancellation.
type Supplier[T any] interface {
	Get(ctx context.Context) (T, error)
}

// SupplierFunc adapts a function to the [Supplier] interface.
type SupplierFunc[T any] func(ctx context.Context) (T, error)

// Get implements [Supplier].
func (f SupplierFunc[T]) Get(ctx context.Context) (T, error) {
	return f(ctx)
}

// URLConfirmer surfaces a device-lock confirmation URL and returns once the
// user reports having confirmed it out of band.
type URLConfirmer interface {
	Confirm(ctx context.Context, url string) error
}

// URLConfirmerFunc adapts a function to the [URLConfirmer] interface.
type URLConfirmerFunc func(ctx context.Context, url string) error

// Confirm implements [URLConfirmer].
func (f URLConfirmerFunc) Confirm(ctx context.Context, url string) error {
	return f(ctx, url)
}

// ConsoleURLConfirm prints the confirmation URL and waits for the user to
// press enter after visiting it.
type ConsoleURLConfirm struct {
	// In supplies the acknowledgement line. Nil means os.Stdin.
	In io.Reader
	// Out receives the prompt. Nil means os.Stderr.
	Out io.Writer
}

// Confirm implements [URLConfirmer].
func (c ConsoleURLConfirm) Confirm(ctx context.Context, url string) error {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	out := c.Out
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprintf(out, "confirm this login in a browser:\n%s\npress enter once confirmed: ", url)

	_, err := readLine(ctx, in)
	return err
}

type deviceLockMode uint8

const (
	deviceLockViaURL deviceLockMode = iota
	deviceLockViaSMS
)

// DeviceLockVerification selects how a device-lock challenge is resolved:
// out-of-band URL confirmation or an SMS code obtained from a supplier.
// Construct values through [DeviceLockURL] or [DeviceLockSMS]; the zero
// value is URL confirmation on the console.
type DeviceLockVerification struct {
	mode      deviceLockMode
	confirmer URLConfirmer
	codes     Supplier[string]
}

// DeviceLockURL resolves the challenge by surfacing the confirmation URL
// through c and retrying the login once the user confirmed. A nil c falls
// back to [ConsoleURLConfirm].
func DeviceLockURL(c URLConfirmer) DeviceLockVerification {
	if c == nil {
		c = ConsoleURLConfirm{}
	}
	return DeviceLockVerification{mode: deviceLockViaURL, confirmer: c}
}

// DeviceLockSMS resolves the challenge by requesting an SMS code from the
// server and submitting the code produced by codes.
func DeviceLockSMS(codes Supplier[string]) DeviceLockVerification {
	return DeviceLockVerification{mode: deviceLockViaSMS, codes: codes}
}

func (v DeviceLockVerification) viaSMS() bool {
	return v.mode == deviceLockViaSMS
}

func (v DeviceLockVerification) urlConfirmer() URLConfirmer {
	if v.confirmer == nil {
		return ConsoleURLConfirm{}
	}
	return v.confirmer
}
