package buffer

import (
	"testing"
	"time"
)

func TestNewBufferIsTerminated(t *testing.T) {
	b := New("scratch", FlagNone)

	if got := b.Text(); got != "\n" {
		t.Errorf("expected empty buffer text %q, got %q", "\n", got)
	}
	if got := b.Content(); got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		lines   int
	}{
		{"terminated", "a\nb\n", "a\nb\n", 2},
		{"unterminated", "a\nb", "a\nb\n", 2},
		{"empty", "", "\n", 1},
		{"single newline", "\n", "\n", 1},
	}

	for _, tt := range tests {
		b := NewFromBytes(tt.name, FlagNone, []byte(tt.content), time.Time{})
		if got := b.Text(); got != tt.want {
			t.Errorf("%s: expected text %q, got %q", tt.name, tt.want, got)
		}
		if got := b.LineCount(); got != tt.lines {
			t.Errorf("%s: expected %d lines, got %d", tt.name, tt.lines, got)
		}
	}
}

func TestInsertAtEndAppendsTerminator(t *testing.T) {
	b := New("scratch", FlagNone)

	if err := b.Insert(b.End(), "hi"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// "\n" + "hi" gains a terminator.
	if got := b.Text(); got != "\nhi\n" {
		t.Errorf("expected %q, got %q", "\nhi\n", got)
	}
}

func TestInsertMidLine(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("hd\n"), time.Time{})

	if err := b.Insert(Coord{Line: 0, Byte: 1}, "ea"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if got := b.Text(); got != "head\n" {
		t.Errorf("expected %q, got %q", "head\n", got)
	}
}

func TestInsertInvalidCoord(t *testing.T) {
	b := New("scratch", FlagNone)

	if err := b.Insert(Coord{Line: 3, Byte: 0}, "x"); err != ErrInvalidCoord {
		t.Errorf("expected ErrInvalidCoord, got %v", err)
	}
}

func TestEraseMergesLines(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("\nhello\n"), time.Time{})

	// Erasing the leading newline merges line 0 away.
	if err := b.Erase(Origin, b.Next(Origin)); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if got := b.Text(); got != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", got)
	}
}

func TestEraseAllReestablishesTerminator(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("one\ntwo\n"), time.Time{})

	if err := b.Erase(b.First(), b.End()); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if got := b.Text(); got != "\n" {
		t.Errorf("expected %q after erasing everything, got %q", "\n", got)
	}
}

func TestErasePreservesTerminator(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("one\ntwo\n"), time.Time{})

	// Erasing to End from mid-buffer must keep the final newline.
	if err := b.Erase(Coord{Line: 1, Byte: 0}, b.End()); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if got := b.Text(); got != "one\n" {
		t.Errorf("expected %q, got %q", "one\n", got)
	}
}

func TestEraseRejectsReversedRange(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("abc\n"), time.Time{})

	err := b.Erase(Coord{Line: 0, Byte: 2}, Coord{Line: 0, Byte: 1})
	if err != ErrInvalidRange {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestNextTraversal(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("ab\nc\n"), time.Time{})

	tests := []struct {
		from Coord
		want Coord
	}{
		{Coord{0, 0}, Coord{0, 1}},
		{Coord{0, 1}, Coord{0, 2}},
		{Coord{0, 2}, Coord{1, 0}}, // newline crosses to next line
		{Coord{1, 0}, Coord{1, 1}},
		{Coord{1, 1}, Coord{1, 2}}, // last byte advances to End
		{Coord{1, 2}, Coord{1, 2}}, // End clamps
	}

	for _, tt := range tests {
		if got := b.Next(tt.from); got != tt.want {
			t.Errorf("Next(%v): expected %v, got %v", tt.from, tt.want, got)
		}
	}
}

func TestBackAndEnd(t *testing.T) {
	b := New("scratch", FlagNone)

	if got := b.Back(); got != Origin {
		t.Errorf("empty buffer Back: expected %v, got %v", Origin, got)
	}
	if got := b.End(); got != (Coord{Line: 0, Byte: 1}) {
		t.Errorf("empty buffer End: expected {0 1}, got %v", got)
	}

	b = NewFromBytes("scratch", FlagNone, []byte("hello\n"), time.Time{})
	if got := b.Back(); got != (Coord{Line: 0, Byte: 5}) {
		t.Errorf("Back: expected {0 5}, got %v", got)
	}
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	b := NewFromBytes("scratch", FlagReadOnly, []byte("x\n"), time.Time{})

	if err := b.Insert(b.Back(), "y"); err != ErrReadOnly {
		t.Errorf("Insert: expected ErrReadOnly, got %v", err)
	}
	if err := b.Erase(b.First(), b.End()); err != ErrReadOnly {
		t.Errorf("Erase: expected ErrReadOnly, got %v", err)
	}
	if got := b.Text(); got != "x\n" {
		t.Errorf("read-only buffer changed: %q", got)
	}
}

func TestReloadReplacesContent(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("old\n"), time.Time{})
	rev := b.Revision()

	mt := time.Now()
	b.Reload([]byte("new\n"), mt)

	if got := b.Text(); got != "new\n" {
		t.Errorf("expected %q, got %q", "new\n", got)
	}
	if !b.ModTime().Equal(mt) {
		t.Errorf("expected mod time %v, got %v", mt, b.ModTime())
	}
	if b.Revision() == rev {
		t.Error("expected revision bump after reload")
	}

	// Reload with nil content resets to the empty buffer.
	b.Reload(nil, time.Time{})
	if got := b.Text(); got != "\n" {
		t.Errorf("expected %q after nil reload, got %q", "\n", got)
	}
	if !b.ModTime().IsZero() {
		t.Error("expected sentinel mod time after nil reload")
	}
}

func TestTextRange(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("hello\nworld\n"), time.Time{})

	got := b.TextRange(Coord{Line: 0, Byte: 0}, Coord{Line: 1, Byte: 0})
	if got != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", got)
	}

	got = b.TextRange(Coord{Line: 1, Byte: 1}, Coord{Line: 1, Byte: 3})
	if got != "or" {
		t.Errorf("expected %q, got %q", "or", got)
	}

	if got = b.TextRange(Coord{Line: 1, Byte: 3}, Coord{Line: 1, Byte: 3}); got != "" {
		t.Errorf("expected empty range, got %q", got)
	}
}

func TestStreamAppendSequence(t *testing.T) {
	// The ingestion pattern: chunks are inserted at Back, before the
	// terminating newline, so partial lines join across chunks.
	b := NewFromBytes("fifo", FlagNone, []byte("hello\n\n"), time.Time{})

	if err := b.Insert(b.Back(), "wor"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if got := b.Text(); got != "hello\nwor\n" {
		t.Errorf("expected %q, got %q", "hello\nwor\n", got)
	}

	if err := b.Insert(b.Back(), "ld\n"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if got := b.Text(); got != "hello\nworld\n\n" {
		t.Errorf("expected %q, got %q", "hello\nworld\n\n", got)
	}
}

func TestLineText(t *testing.T) {
	b := NewFromBytes("scratch", FlagNone, []byte("one\ntwo\n"), time.Time{})

	if got := b.LineText(0); got != "one" {
		t.Errorf("expected %q, got %q", "one", got)
	}
	if got := b.LineText(1); got != "two" {
		t.Errorf("expected %q, got %q", "two", got)
	}
	if got := b.LineText(5); got != "" {
		t.Errorf("expected empty text out of range, got %q", got)
	}
}

func TestFlagOps(t *testing.T) {
	b := New("scratch", FlagFile)

	b.OrFlags(FlagFifo | FlagNoUndo)
	if !b.Flags().Has(FlagFile | FlagFifo | FlagNoUndo) {
		t.Errorf("expected combined flags, got %v", b.Flags())
	}

	b.ClearFlags(FlagFifo | FlagNoUndo)
	if b.Flags() != FlagFile {
		t.Errorf("expected FlagFile only, got %v", b.Flags())
	}

	b.SetFlags(FlagDebug | FlagReadOnly)
	if b.Flags() != FlagDebug|FlagReadOnly {
		t.Errorf("expected replaced flags, got %v", b.Flags())
	}
}

func TestBufferIdentity(t *testing.T) {
	a := New("a", FlagNone)
	b := New("b", FlagNone)

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
	if a.Name() != "a" {
		t.Errorf("expected name %q, got %q", "a", a.Name())
	}
}
