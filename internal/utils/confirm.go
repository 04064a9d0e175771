// Package utils provides utility functions.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts the user with msg and expects y/n on stdin. Returns true for yes.
func Confirm(msg string) bool {
	return ConfirmReader(msg, os.Stdin, os.Stdout)
}

// ConfirmReader is Confirm with injectable streams for tests.
func ConfirmReader(msg string, in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "%s [y/N]: ", msg)
	r := bufio.NewReader(in)
	line, _ := r.ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}
