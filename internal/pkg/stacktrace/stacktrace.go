// Package stacktrace trims goroutine stacks down to the application's own
// frames for panic logs.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 64

// Internal returns "internal/<pkg>/<file>.go:<line>" for each frame of the
// calling goroutine that belongs to this module. skip 0 starts at the caller
// of Internal. Called from a deferred recover, the panicking frames are
// still on the stack and are included.
func Internal(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var paths []string
	for {
		frame, more := frames.Next()
		if idx := strings.Index(frame.File, "/internal/"); idx != -1 {
			paths = append(paths, frame.File[idx+1:]+":"+strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}
	return paths
}
