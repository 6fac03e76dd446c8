package buffer

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Buffer is a named, line-addressed text buffer.
//
// Content is stored as lines that each end in a newline; the slice is
// never empty. All methods are safe for concurrent use, though bufcore
// drives buffers from a single cooperative thread.
type Buffer struct {
	mu       sync.RWMutex
	name     string
	id       string
	lines    []string
	flags    Flags
	modTime  time.Time
	revision uint64
	tabWidth int
}

// Option configures a Buffer at creation.
type Option func(*Buffer)

// WithTabWidth sets the buffer's tab width. Values below 1 are clamped.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width < 1 {
			width = 1
		}
		b.tabWidth = width
	}
}

// New creates an empty buffer holding the single terminating newline.
func New(name string, flags Flags, opts ...Option) *Buffer {
	b := &Buffer{
		name:     name,
		id:       uuid.NewString(),
		lines:    []string{"\n"},
		flags:    flags,
		tabWidth: 8,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewFromBytes creates a buffer seeded with content and a modification
// time. A zero modTime marks a buffer with no reloadable backing file.
func NewFromBytes(name string, flags Flags, content []byte, modTime time.Time, opts ...Option) *Buffer {
	b := New(name, flags, opts...)
	b.lines = splitLines(string(content))
	b.modTime = modTime
	return b
}

// splitLines splits s into newline-terminated lines, appending the
// structural terminator when s does not end in one. Empty input yields
// the single line "\n".
func splitLines(s string) []string {
	if s == "" {
		return []string{"\n"}
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}

	lines := make([]string, 0, strings.Count(s, "\n"))
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Identity

// Name returns the buffer's registry name.
func (b *Buffer) Name() string { return b.name }

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() string { return b.id }

// Revision returns the mutation counter. It increases on every content
// change.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// ModTime returns the modification time of the backing file snapshot.
// The zero time means the buffer has no reloadable backing file.
func (b *Buffer) ModTime() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modTime
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth sets the buffer's tab width. Values below 1 are clamped.
func (b *Buffer) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Flag access

// Flags returns the current flag set.
func (b *Buffer) Flags() Flags {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.flags
}

// SetFlags replaces the flag set.
func (b *Buffer) SetFlags(f Flags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags = f
}

// OrFlags sets the bits in mask.
func (b *Buffer) OrFlags(mask Flags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags |= mask
}

// ClearFlags clears the bits in mask.
func (b *Buffer) ClearFlags(mask Flags) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flags &^= mask
}

// Read operations

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a line without its terminating newline.
// Out-of-range lines yield the empty string.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return strings.TrimSuffix(b.lines[line], "\n")
}

// Len returns the total byte length, terminator included.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lenLocked()
}

// Text returns the full buffer content, terminator included.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textLocked()
}

// Content returns the buffer content without the structural terminator.
// An empty buffer yields "".
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text := b.textLocked()
	return text[:len(text)-1]
}

// TextRange returns the bytes in [from, to). Coordinates are clamped to
// the buffer.
func (b *Buffer) TextRange(from, to Coord) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	text := b.textLocked()
	start := clamp(b.offsetLocked(from), 0, len(text))
	end := clamp(b.offsetLocked(to), 0, len(text))
	if start >= end {
		return ""
	}
	return text[start:end]
}

// Coordinates

// First returns the buffer's very first position.
func (b *Buffer) First() Coord { return Origin }

// Back returns the coordinate of the buffer's last byte, the terminating
// newline. On an empty buffer this is the origin.
func (b *Buffer) Back() Coord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	last := len(b.lines) - 1
	return Coord{Line: last, Byte: len(b.lines[last]) - 1}
}

// End returns the coordinate one past the buffer's last byte.
func (b *Buffer) End() Coord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.endLocked()
}

// Next returns the coordinate one byte after c, crossing line
// boundaries. It clamps at End.
func (b *Buffer) Next(c Coord) Coord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if c.Line >= len(b.lines)-1 {
		last := b.lines[len(b.lines)-1]
		if c.Byte+1 < len(last) {
			return Coord{Line: len(b.lines) - 1, Byte: c.Byte + 1}
		}
		return b.endLocked()
	}
	if c.Byte+1 < len(b.lines[c.Line]) {
		return Coord{Line: c.Line, Byte: c.Byte + 1}
	}
	return Coord{Line: c.Line + 1, Byte: 0}
}

// Valid reports whether c addresses a byte in the buffer or the End
// position.
func (b *Buffer) Valid(c Coord) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validLocked(c)
}

// Write operations

// Insert splices text at c. Inserting at End text that does not end in a
// newline gains one, preserving the terminating-newline invariant.
func (b *Buffer) Insert(c Coord, text string) error {
	if text == "" {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.flags.Has(FlagReadOnly) {
		return ErrReadOnly
	}
	if !b.validLocked(c) {
		return ErrInvalidCoord
	}

	if c == b.endLocked() && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	whole := b.textLocked()
	off := b.offsetLocked(c)
	b.lines = splitLines(whole[:off] + text + whole[off:])
	b.revision++
	return nil
}

// Erase removes the bytes in [from, to). The terminating newline is never
// erased out from under remaining content; erasing everything
// re-establishes the empty buffer "\n".
func (b *Buffer) Erase(from, to Coord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.flags.Has(FlagReadOnly) {
		return ErrReadOnly
	}
	if !b.validLocked(from) || !b.validLocked(to) {
		return ErrInvalidCoord
	}
	if to.Before(from) {
		return ErrInvalidRange
	}

	whole := b.textLocked()
	start := b.offsetLocked(from)
	end := b.offsetLocked(to)

	if start == 0 && end >= len(whole) {
		b.lines = []string{"\n"}
		b.revision++
		return nil
	}
	if end >= len(whole) {
		end = len(whole) - 1
	}
	if start >= end {
		return nil
	}

	b.lines = splitLines(whole[:start] + whole[end:])
	b.revision++
	return nil
}

// Reload replaces the buffer content wholesale and records the new
// modification time. Conflict resolution against in-buffer edits is the
// caller's concern; Reload applies unconditionally.
func (b *Buffer) Reload(content []byte, modTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = splitLines(string(content))
	b.modTime = modTime
	b.revision++
}

// Internal helpers; callers hold b.mu.

func (b *Buffer) textLocked() string {
	var sb strings.Builder
	sb.Grow(b.lenLocked())
	for _, line := range b.lines {
		sb.WriteString(line)
	}
	return sb.String()
}

func (b *Buffer) lenLocked() int {
	n := 0
	for _, line := range b.lines {
		n += len(line)
	}
	return n
}

func (b *Buffer) endLocked() Coord {
	last := len(b.lines) - 1
	return Coord{Line: last, Byte: len(b.lines[last])}
}

func (b *Buffer) offsetLocked(c Coord) int {
	if c.Line < 0 {
		return 0
	}
	off := 0
	for i := 0; i < c.Line && i < len(b.lines); i++ {
		off += len(b.lines[i])
	}
	return off + c.Byte
}

func (b *Buffer) validLocked(c Coord) bool {
	if c.Line < 0 || c.Line >= len(b.lines) || c.Byte < 0 {
		return false
	}
	line := b.lines[c.Line]
	if c.Byte < len(line) {
		return true
	}
	// One past the last byte is valid only on the last line.
	return c.Line == len(b.lines)-1 && c.Byte == len(line)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
