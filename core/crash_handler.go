package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashHandler is the injected cleanup hook, set once at startup.
// Kept injectable so this package stays independent of the render layer.
var crashHandler atomic.Value // func(any)

// SetCrashHandler installs the cleanup hook invoked before the stack dump.
// Typically restores the terminal so the trace is readable.
func SetCrashHandler(fn func(r any)) {
	crashHandler.Store(fn)
}

// HandleCrash is the unified panic handler: runs the injected cleanup hook,
// prints the stack trace, and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if fn, ok := crashHandler.Load().(func(any)); ok && fn != nil {
		fn(r)
	}

	os.Stdout.Sync()
	os.Stderr.Sync()

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	os.Stderr.Sync()
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
