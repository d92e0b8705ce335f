// Package compiler runs the external catalog compiler that turns .po
// translation sources into binary .mo catalogs.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
	"github.com/batterymon/batterymon/internal/shared/version"
)

// Compiler compiles one translation source into a catalog at output.
type Compiler interface {
	Compile(ctx context.Context, source, output string) (*Result, error)
}

// Result describes one compiler invocation. It is returned whether or not the
// invocation succeeded.
type Result struct {
	Args     []string
	ExitCode int
	Stderr   string
	Duration time.Duration
}

// Succeeded reports a zero exit status.
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Msgfmt invokes GNU msgfmt, or any tool accepting "-o <output> <source>".
type Msgfmt struct {
	command string
	args    []string
	path    string
	logger  logger.Interface
}

// NewMsgfmt creates a compiler for command with extra arguments placed before
// the output and source arguments.
func NewMsgfmt(command string, args []string, log logger.Interface) *Msgfmt {
	return &Msgfmt{
		command: command,
		args:    append([]string(nil), args...),
		logger:  log.With("component", "compiler.msgfmt"),
	}
}

// Lookup resolves the compiler on PATH. A missing compiler is a precondition
// error so callers can abort before doing any work.
func (m *Msgfmt) Lookup() (string, error) {
	if m.path != "" {
		return m.path, nil
	}
	path, err := exec.LookPath(m.command)
	if err != nil {
		return "", apperrors.NewPreconditionError(
			fmt.Sprintf("catalog compiler %q not found on PATH", m.command),
			"install GNU gettext (msgfmt) or set compiler.command",
		).WithCause(err)
	}
	m.path = path
	return path, nil
}

// Version runs "<command> --version" and extracts the version number.
func (m *Msgfmt) Version(ctx context.Context) (string, error) {
	path, err := m.Lookup()
	if err != nil {
		return "", err
	}

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to query %s version: %w", m.command, err)
	}

	v := version.ParseToolVersion(string(out))
	if v == "" {
		return "", fmt.Errorf("cannot parse %s version from %q", m.command, firstLine(string(out)))
	}
	return v, nil
}

// CheckVersion fails with a precondition error when the compiler is older
// than minimum. An empty minimum skips the probe.
func (m *Msgfmt) CheckVersion(ctx context.Context, minimum string) error {
	if strings.TrimSpace(minimum) == "" {
		return nil
	}

	v, err := m.Version(ctx)
	if err != nil {
		return apperrors.NewPreconditionError("cannot determine catalog compiler version").WithCause(err)
	}
	if !version.AtLeast(v, minimum) {
		return apperrors.NewPreconditionError(
			fmt.Sprintf("%s %s is older than the required %s", m.command, v, version.Normalize(minimum)),
		)
	}

	m.logger.Debugw("compiler version accepted", "version", v, "minimum", minimum)
	return nil
}

// Compile runs the compiler and waits for it. A non-zero exit, a failure to
// start, or a run that leaves no output file is reported as a compile error.
func (m *Msgfmt) Compile(ctx context.Context, source, output string) (*Result, error) {
	path, err := m.Lookup()
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), m.args...), "-o", output, source)
	result := &Result{Args: append([]string{m.command}, args...)}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	m.logger.Debugw("running catalog compiler", "args", result.Args)

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Stderr = strings.TrimSpace(stderr.String())

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result, apperrors.NewCompileError(
			fmt.Sprintf("%s failed for %s", m.command, source),
			describe(result, runErr),
		).WithCause(runErr)
	}

	if _, err := os.Stat(output); errors.Is(err, fs.ErrNotExist) {
		return result, apperrors.NewCompileError(
			fmt.Sprintf("%s produced no output for %s", m.command, source),
			output,
		)
	}

	return result, nil
}

func describe(r *Result, err error) string {
	if r.Stderr != "" {
		return fmt.Sprintf("exit status %d: %s", r.ExitCode, firstLine(r.Stderr))
	}
	return err.Error()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
