package logging

import (
	"fmt"
	"os"
)

// User-facing output functions with emoji prefixes.
// All narration goes to stderr: stdout is reserved for machine-consumed
// output, such as the sandbox name printed by allocate.

// UserInfo prints an info message to stderr.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ℹ "+format+"\n", args...)
}

// UserSuccess prints a success message to stderr.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "✓ "+format+"\n", args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "⚠ "+format+"\n", args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}
