package buffer

import "strings"

// Flags is a bit set describing a buffer's modality and mutation policy.
type Flags uint8

const (
	// FlagFile marks a buffer backed by a file on disk.
	FlagFile Flags = 1 << iota

	// FlagNew marks a file buffer whose backing file does not exist yet.
	FlagNew

	// FlagFifo marks a buffer currently fed by a stream watcher.
	FlagFifo

	// FlagNoUndo disables undo recording for the buffer.
	FlagNoUndo

	// FlagReadOnly rejects Insert and Erase.
	FlagReadOnly

	// FlagDebug marks the diagnostic buffer.
	FlagDebug

	// FlagNone is the empty flag set.
	FlagNone Flags = 0
)

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// With returns f with the bits in mask set.
func (f Flags) With(mask Flags) Flags {
	return f | mask
}

// Without returns f with the bits in mask cleared.
func (f Flags) Without(mask Flags) Flags {
	return f &^ mask
}

// String returns a pipe-separated list of set flag names.
func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}

	names := make([]string, 0, 6)
	for _, entry := range []struct {
		flag Flags
		name string
	}{
		{FlagFile, "file"},
		{FlagNew, "new"},
		{FlagFifo, "fifo"},
		{FlagNoUndo, "noundo"},
		{FlagReadOnly, "readonly"},
		{FlagDebug, "debug"},
	} {
		if f.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}
