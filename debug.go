package figview

import (
	"fmt"
	"os"
	"time"
)

// debugPrintf writes one line to stderr; only ever called behind
// Document.debug.
func debugPrintf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[figview] "+format+"\n", args...)
}

// timeIt measures fn's duration and logs it under the given phase name when
// debug is true.
func timeIt(debug bool, phase string, fn func() error) error {
	if !debug {
		return fn()
	}
	start := time.Now()
	err := fn()
	debugPrintf("%s: %v", phase, time.Since(start))
	return err
}
