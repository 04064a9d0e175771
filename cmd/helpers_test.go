package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/unitykit/unity-guid-rewriter/internal/config"
)

func setupTempHome(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	t.Setenv(config.EnvHome, d)
	return d
}

// captureOutput runs f with os.Stdout and os.Stderr redirected and returns
// what was written to each.
func captureOutput(f func()) (string, string) {
	oldOut := os.Stdout
	oldErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	outC := make(chan string)
	errC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		outC <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rErr)
		errC <- buf.String()
	}()

	f()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldOut
	os.Stderr = oldErr
	return <-outC, <-errC
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var err error
	out, errOut := captureOutput(func() {
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	})
	return out, errOut, err
}
