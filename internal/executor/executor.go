// Package executor provides command execution for pipeline steps.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Executor runs shell commands in an OS-aware way.
type Executor struct {
	DryRun  bool
	Verbose bool
	Shell   string // optional override (e.g., "pwsh")
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without running real shell commands.
type Runner interface {
	Execute(ctx context.Context, command string, cwd string, env []string, stdout io.Writer, stderr io.Writer) error
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"‘", "'", // left single quote
		"’", "'", // right single quote
		"“", "\"", // left double quote
		"”", "\"", // right double quote
		" ", " ", // NO-BREAK SPACE
		"​", "", // zero width space
		"‎", "", // left-to-right mark
		"‏", "", // right-to-left mark
	)
	rp := r.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, rp)
}

func validateAndSanitize(command string) (string, error) {
	command = sanitizeCommand(strings.TrimSpace(command))
	if command == "" {
		return "", fmt.Errorf("empty command")
	}
	if strings.ContainsAny(command, "\n\r") {
		return "", fmt.Errorf("command contains newline characters")
	}
	return command, nil
}

// Execute runs the provided command string using an OS-appropriate shell
// invocation (e.g., `bash -c` on Unix, `cmd /C` on Windows). If cwd is
// non-empty, the command runs in that directory; env entries are appended to
// the current process environment. stdout and stderr are written to the
// provided writers.
func (e *Executor) Execute(ctx context.Context, command string, cwd string, env []string, stdout io.Writer, stderr io.Writer) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}

	if e.DryRun {
		if e.Verbose && stdout != nil {
			fmt.Fprintf(stdout, "dry-run: %s\n", command)
		}
		return nil
	}

	shell, args := shellInvocation(command, e.Shell)

	cmd := exec.CommandContext(ctx, shell, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var bout, berr bytes.Buffer
	cmd.Stdout = &bout
	cmd.Stderr = &berr

	runErr := cmd.Run()

	if stdout != nil {
		_, _ = io.Copy(stdout, &bout)
	}
	if stderr != nil {
		_, _ = io.Copy(stderr, &berr)
	}

	if runErr != nil {
		return fmt.Errorf("%s %s: %w", shell, shellquote.Join(args...), runErr)
	}
	return nil
}

// shellInvocation returns the shell executable and arguments for the platform.
// Optional override lets callers request an alternate shell (e.g., pwsh).
func shellInvocation(command, override string) (string, []string) {
	if override != "" {
		if strings.EqualFold(override, "cmd") {
			return override, []string{"/C", command}
		}
		return override, []string{"-c", command}
	}
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

// SplitArgs splits a command string into tokens respecting single and double
// quotes. It falls back to whitespace splitting if the splitter fails.
func SplitArgs(s string) []string {
	if toks, err := shellquote.Split(s); err == nil {
		return toks
	}
	return strings.Fields(s)
}
