package qauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// SliderResolver solves a slider captcha raised mid-login and returns the
// resulting ticket. Resolve may block on human interaction for unbounded
// time and must honor ctx cancellation.
type SliderResolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// SliderResolverFunc adapts a function to the [SliderResolver] interface.
type SliderResolverFunc func(ctx context.Context, url string) (string, error)

// Resolve implements [SliderResolver].
func (f SliderResolverFunc) Resolve(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// AndroidHelperSlider instructs the user to solve the captcha in a helper
// app on another device and paste the resulting ticket back, read as a
// single line.
type AndroidHelperSlider struct {
	// In supplies the ticket line. Nil means os.Stdin.
	In io.Reader
	// Out receives the instructions. Nil means os.Stderr.
	Out io.Writer
}

// Resolve implements [SliderResolver].
func (s AndroidHelperSlider) Resolve(ctx context.Context, url string) (string, error) {
	in := s.In
	if in == nil {
		in = os.Stdin
	}
	out := s.Out
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprintf(out, "open the captcha helper and solve the slider at:\n%s\npaste the ticket and press enter: ", url)

	line, err := readLine(ctx, in)
	if err != nil {
		return "", err
	}

	ticket := strings.TrimSpace(line)
	if ticket == "" {
		return "", fmt.Errorf("empty slider ticket")
	}
	return ticket, nil
}

// readLine reads one line from r without holding the calling goroutine when
// ctx is cancelled first. The reader goroutine may outlive the call; that
// is acceptable for interactive stdin use, which is the only intended
// caller.
func readLine(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && line == "" {
			ch <- result{err: err}
			return
		}
		ch <- result{line: line}
	}()

	select {
	case res := <-ch:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
