// Package buffer implements the line-storage text buffer used by bufcore.
//
// A buffer stores its content as a slice of lines, each terminated by a
// newline. The slice is never empty: an empty buffer holds the single line
// "\n". Every mutation preserves the structural invariant that the buffer
// ends with a terminating newline; erasing all content re-establishes it.
//
// Coordinates address individual bytes as (line, byte-within-line) pairs.
// Back is the coordinate of the buffer's last byte (the terminating
// newline) and is the canonical append point for stream ingestion: text
// inserted there lands before the terminator, so partial lines join and
// the terminator remains the next insertion point.
package buffer
