// internal/recovery/recovery.go
package recovery

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Replaced in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// HandlePanic should be deferred at the top of main(). It reports the panic
// with a stack trace and exits with code 1. Fixed allocations that fail at
// start-up panic, so they end here too.
func HandlePanic() {
	if r := recover(); r != nil {
		report(r)
		exit(1)
	}
}

// HandlePanicFunc is HandlePanic for goroutines that own resources: cleanup
// runs after the report and before exit.
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		report(r)
		if cleanup != nil {
			cleanup()
		}
		exit(1)
	}
}

// Halt reports an unrecoverable error and exits with code 1. It is for
// start-up failures where nothing useful can continue.
func Halt(err error) {
	_, _ = fmt.Fprintf(stderr, "FATAL: %v\n", err)
	exit(1)
}

func report(r any) {
	_, _ = fmt.Fprintf(stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
}
