// Package sysopen launches the operating system's default handler for a
// file or URL.
package sysopen

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Open asks the desktop environment to open target with its default
// application. The handler is started, not waited for.
func Open(ctx context.Context, target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("sysopen: %w", err)
	}

	// Reap the child without blocking the caller.
	go func() { _ = cmd.Wait() }()

	return nil
}
