// Package goid exposes the current goroutine's id.
//
// The runtime does not export this on purpose; the reentrant lock needs a
// holder identity, and the goroutine id is the only one there is. Parsing
// the first line of runtime.Stack is the established technique. It costs a
// stack header format per call, which is acceptable on a lock path.
package goid

import (
	"runtime"
	"strconv"
	"strings"
)

// Get returns the id of the calling goroutine.
func Get() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// First line: "goroutine <id> [running]:"
	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseInt(s[:i], 10, 64); err == nil {
			return id
		}
	}
	return -1
}
