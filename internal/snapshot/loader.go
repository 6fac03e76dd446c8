package snapshot

import (
	"errors"
	"io/fs"
	"time"

	"github.com/dshills/bufcore/internal/buffer"
	"github.com/dshills/bufcore/internal/bufstore"
	"github.com/dshills/bufcore/internal/hook"
	"github.com/dshills/bufcore/internal/log"
)

// ErrNotFileBacked indicates a reload of a buffer without the file flag.
var ErrNotFileBacked = errors.New("buffer is not file-backed")

// Loader opens and reloads file-backed buffers in a store.
type Loader struct {
	store  *bufstore.Store
	hooks  *hook.Manager
	logger *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHooks sets the hook manager used for file lifecycle events.
func WithHooks(h *hook.Manager) LoaderOption {
	return func(l *Loader) {
		l.hooks = h
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader over store.
func NewLoader(store *bufstore.Store, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:  store,
		logger: log.Null,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open snapshots path and registers a file buffer seeded with the
// snapshot. A file that cannot be read fails the open; the error reaches
// the caller and no buffer is created.
func (l *Loader) Open(path string, flags buffer.Flags) (*buffer.Buffer, error) {
	snap, err := Capture(path)
	if err != nil {
		return nil, err
	}

	buf, err := l.store.Create(path, buffer.FlagFile|flags, snap.Content, snap.ModTime)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("opened %s (%d bytes)", path, len(snap.Content))
	l.fire(hook.BufOpenFile, buf.Name(), buf.Name())
	return buf, nil
}

// OpenOrCreate behaves as Open when path exists. A missing file is a
// normal outcome: the buffer is registered empty with the new-file flag
// and the sentinel modification time, and no read is attempted.
func (l *Loader) OpenOrCreate(path string, flags buffer.Flags) (*buffer.Buffer, error) {
	snap, err := Capture(path)
	if errors.Is(err, fs.ErrNotExist) {
		buf, cerr := l.store.Create(path, buffer.FlagFile|buffer.FlagNew|flags, nil, time.Time{})
		if cerr != nil {
			return nil, cerr
		}
		l.logger.Debug("created new file buffer %s", path)
		l.fire(hook.BufNewFile, buf.Name(), buf.Name())
		return buf, nil
	}
	if err != nil {
		return nil, err
	}

	buf, err := l.store.Create(path, buffer.FlagFile|flags, snap.Content, snap.ModTime)
	if err != nil {
		return nil, err
	}
	l.fire(hook.BufOpenFile, buf.Name(), buf.Name())
	return buf, nil
}

// Reload re-snapshots the buffer's path and replaces its content and
// modification time. The buffer must be file-backed. A successful reload
// clears the new-file flag: the file demonstrably exists now.
func (l *Loader) Reload(buf *buffer.Buffer) error {
	if !buf.Flags().Has(buffer.FlagFile) {
		return ErrNotFileBacked
	}

	snap, err := Capture(buf.Name())
	if err != nil {
		return err
	}

	buf.Reload(snap.Content, snap.ModTime)
	buf.ClearFlags(buffer.FlagNew)
	l.logger.Debug("reloaded %s (%d bytes)", buf.Name(), len(snap.Content))
	return nil
}

func (l *Loader) fire(ev hook.Event, bufName, payload string) {
	if l.hooks != nil {
		l.hooks.Run(ev, bufName, payload)
	}
}
