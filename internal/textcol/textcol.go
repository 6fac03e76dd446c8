// Package textcol translates between byte offsets and display columns
// within a single line of text.
//
// Columns count terminal cells: tabs advance to the next tab stop,
// regular text advances by grapheme cluster using each cluster's cell
// width (0, 1, or 2). Both directions are pure scans over the line.
package textcol

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab width used when an invalid one is given.
const DefaultTabWidth = 8

// Mapper converts between byte offsets and display columns for a fixed
// tab width.
type Mapper struct {
	tabWidth int
}

// New creates a mapper. Tab widths below 1 fall back to DefaultTabWidth.
func New(tabWidth int) Mapper {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return Mapper{tabWidth: tabWidth}
}

// TabWidth returns the mapper's tab width.
func (m Mapper) TabWidth() int {
	return m.tabWidth
}

// Column returns the display column of byteOffset within line. Offsets
// beyond the line clamp to the line's full width; an offset inside a
// cluster counts that cluster's full advance.
func (m Mapper) Column(line string, byteOffset int) int {
	col := 0
	state := -1
	for off := 0; off < len(line) && byteOffset > off; {
		cluster, _, width, newState := uniseg.FirstGraphemeClusterInString(line[off:], state)
		if cluster == "\t" {
			col = (col/m.tabWidth + 1) * m.tabWidth
		} else {
			col += clusterWidth(cluster, width)
		}
		off += len(cluster)
		state = newState
	}
	return col
}

// ByteOffset returns the byte offset whose display column is targetCol.
// A target that falls strictly inside a tab's expansion or a multi-cell
// cluster yields that cluster's starting offset: callers always receive a
// cluster boundary, never a partial cell position.
func (m Mapper) ByteOffset(line string, targetCol int) int {
	col := 0
	off := 0
	state := -1
	for off < len(line) && targetCol > col {
		cluster, _, width, newState := uniseg.FirstGraphemeClusterInString(line[off:], state)
		if cluster == "\t" {
			next := (col/m.tabWidth + 1) * m.tabWidth
			if next > targetCol {
				// The target column is inside the tab.
				return off
			}
			col = next
		} else {
			w := clusterWidth(cluster, width)
			if col+w > targetCol {
				// The target column is inside the cluster.
				return off
			}
			col += w
		}
		off += len(cluster)
		state = newState
	}
	return off
}

// LineWidth returns the display width of the whole line.
func (m Mapper) LineWidth(line string) int {
	return m.Column(line, len(line))
}

// clusterWidth returns the terminal cell width of one grapheme cluster.
// go-runewidth is authoritative; uniseg's own measurement covers clusters
// runewidth reports as zero.
func clusterWidth(cluster string, unisegWidth int) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 && unisegWidth > w {
		w = unisegWidth
	}
	if w < 0 {
		w = 0
	}
	return w
}
