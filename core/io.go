package core

import (
	"io"
	"os"
	"sync"
)

// IO holds the descriptors children inherit. The interpreter writes its own
// messages to the same streams.
type IO struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// StdIO returns the interpreter's own standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// syncWriter serializes writes from the interpreter loop and the mode
// watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}
