package pvector

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentGoroutineID parses the numeric id out of the calling
// goroutine's own stack trace header ("goroutine 123 [running]:"). This
// is a best-effort diagnostic, not a synchronization primitive: Go
// deliberately exposes no public goroutine identity. It exists only so
// TransientVector can return ErrCrossThreadEdit for the common mistake
// of sharing a transient across goroutines, the one piece of the
// thread-confinement model a plain edit-token freeze check cannot
// catch on its own.
func currentGoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if end := bytes.IndexByte(b, ' '); end >= 0 {
		b = b[:end]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
