// Package upload pushes a prepared archive to its destination with an
// external copy command.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	shlex "github.com/anmitsu/go-shlex"

	"github.com/tbxmanager/tbx"
)

// MethodSCP is the only supported upload method.
const MethodSCP = "scp"

// DefaultSCPCommand is used when no scp command is configured.
const DefaultSCPCommand = "scp"

// Runner runs an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, wiring their output to Stdout and Stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command and waits for it. A non-zero exit status is an error.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- command comes from user config
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Uploader copies archives with the configured command.
type Uploader struct {
	// SCPCommand is split with shell rules, e.g. "scp -P 2222 -i ~/.ssh/tbx".
	SCPCommand string
	Runner     Runner
	// Out receives the command line before it runs. Nil discards it.
	Out io.Writer
}

// Upload sends archive to dest using method. The archive must exist
// before anything is run.
func (u *Uploader) Upload(ctx context.Context, method, archive, dest string) error {
	if _, err := os.Stat(archive); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("archive %s: %w", archive, tbx.ErrFileNotFound)
		}
		return fmt.Errorf("stat archive: %w", err)
	}

	if strings.ToLower(method) != MethodSCP {
		return fmt.Errorf("upload method %q is not supported: %w", method, tbx.ErrUnknownInput)
	}

	argv, err := u.command(archive, dest)
	if err != nil {
		return err
	}

	out := u.Out
	if out == nil {
		out = io.Discard
	}
	_, _ = fmt.Fprintf(out, "Running: %s\n", strings.Join(argv, " "))
	slog.Debug("running upload command", "argv", argv)

	if err := u.Runner.Run(ctx, argv[0], argv[1:]...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", argv[0], ctxErr)
		}
		return fmt.Errorf("%s: %w: %w", argv[0], tbx.ErrUploadFailed, err)
	}
	return nil
}

func (u *Uploader) command(archive, dest string) ([]string, error) {
	base := u.SCPCommand
	if strings.TrimSpace(base) == "" {
		base = DefaultSCPCommand
	}

	argv, err := shlex.Split(base, true)
	if err != nil {
		return nil, fmt.Errorf("parse scp command %q: %w", base, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("parse scp command %q: empty command", base)
	}

	return append(argv, archive, dest), nil
}
