package executor

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecuteEcho(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	var errb bytes.Buffer
	e := &Executor{}
	if err := e.Execute(ctx, "echo hello", "", nil, &out, &errb); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("expected 'hello' in stdout, got: %q", out.String())
	}
}

func TestExecuteFail(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	var errb bytes.Buffer
	e := &Executor{}
	// 'exit 1' should return non-zero from shell
	if err := e.Execute(ctx, "exit 1", "", nil, &out, &errb); err == nil {
		t.Fatalf("expected error for failing command")
	}
}

func TestExecuteCwd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pwd is not a cmd.exe builtin")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dir := t.TempDir()
	var out bytes.Buffer
	e := &Executor{}
	if err := e.Execute(ctx, "pwd", dir, nil, &out, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Fatalf("expected cwd %q in output, got: %q", dir, out.String())
	}
}

func TestDryRun(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	e := &Executor{DryRun: true, Verbose: true}
	if err := e.Execute(ctx, "echo hi", "", nil, &out, nil); err != nil {
		t.Fatalf("dry-run should not error: %v", err)
	}
	if !strings.Contains(out.String(), "dry-run:") {
		t.Fatalf("expected dry-run message, got: %q", out.String())
	}
}

func TestRejectsEmptyAndMultiline(t *testing.T) {
	ctx := context.Background()
	e := &Executor{}
	if err := e.Execute(ctx, "   ", "", nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty command")
	}
	if err := e.Execute(ctx, "echo a\necho b", "", nil, nil, nil); err == nil {
		t.Fatalf("expected error for multiline command")
	}
}

func TestSanitizeCommand(t *testing.T) {
	got := sanitizeCommand("echo “hi”​")
	if got != `echo "hi"` {
		t.Fatalf("unexpected sanitized command: %q", got)
	}
}

func TestSplitArgs(t *testing.T) {
	toks := SplitArgs(`go build -o "out dir/app" .`)
	if len(toks) != 5 || toks[3] != "out dir/app" {
		t.Fatalf("unexpected tokens: %#v", toks)
	}
}
