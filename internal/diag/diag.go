// Package diag appends diagnostic messages to a dedicated buffer.
package diag

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/dshills/bufcore/internal/buffer"
	"github.com/dshills/bufcore/internal/bufstore"
)

// DebugBufferName is the reserved name of the diagnostic buffer.
const DebugBufferName = "*debug*"

// Sink writes messages into the diagnostic buffer of a store, creating
// the buffer on first use. Without a store, messages fall through to a
// plain writer so diagnostics are never lost during startup or
// teardown.
type Sink struct {
	store    *bufstore.Store
	fallback io.Writer
}

// Option configures a Sink.
type Option func(*Sink)

// WithFallback sets the writer used when no store is available.
// Defaults to stderr.
func WithFallback(w io.Writer) Option {
	return func(s *Sink) {
		s.fallback = w
	}
}

// New creates a sink over store. A nil store is allowed; every message
// then goes to the fallback writer.
func New(store *bufstore.Store, opts ...Option) *Sink {
	s := &Sink{
		store:    store,
		fallback: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write appends msg as one or more lines to the diagnostic buffer. A
// message without a trailing newline gets one, so consecutive messages
// never share a line. The buffer stays read-only for everyone else; the
// sink lifts the flag only for the duration of the insert.
func (s *Sink) Write(msg string) error {
	line := msg
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	if s.store == nil {
		_, err := io.WriteString(s.fallback, line)
		return err
	}

	buf := s.store.Get(DebugBufferName)
	if buf == nil {
		// Seed with an extra separator so the append point stays on its
		// own final line.
		_, err := s.store.Create(DebugBufferName,
			buffer.FlagNoUndo|buffer.FlagDebug|buffer.FlagReadOnly,
			[]byte(line+"\n"), time.Time{})
		return err
	}

	saved := buf.Flags()
	buf.ClearFlags(buffer.FlagReadOnly)
	defer buf.SetFlags(saved)

	return buf.Insert(buf.Back(), line)
}
