package buffer

import "fmt"

// Coord addresses a single byte inside a buffer as a
// (line index, byte offset within that line) pair. Both are zero-based.
type Coord struct {
	// Line is the zero-based line index.
	Line int

	// Byte is the zero-based byte offset within the line, counting the
	// line's terminating newline as its last byte.
	Byte int
}

// Origin is the buffer's very first position.
var Origin = Coord{Line: 0, Byte: 0}

// Before reports whether c is strictly before other in buffer order.
func (c Coord) Before(other Coord) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Byte < other.Byte
}

// String returns a human-readable representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("%d.%d", c.Line, c.Byte)
}
