// Package snapshot captures file contents for buffer seeding and reload.
//
// A snapshot is an immutable (content, modification time) pair read from
// one open file handle, so the two cannot disagree about which version of
// the file they describe. The zero modification time is the sentinel for
// "no backing file".
package snapshot

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Snapshot is a file's content and modification time captured at one
// instant.
type Snapshot struct {
	// Content is the raw file content.
	Content []byte

	// ModTime is the file's modification time. Zero means the snapshot
	// does not describe an existing file.
	ModTime time.Time
}

// Capture reads path's content and modification time through a single
// open handle. Failures are reported as file-access errors to the caller.
func Capture(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	defer f.Close()

	// Stat the open handle, not the path: a rename or replace between
	// the two calls must not mix content and mtime from different files.
	info, err := f.Stat()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}

	return Snapshot{Content: content, ModTime: info.ModTime()}, nil
}
