package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	snap, err := Capture(path)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got := string(snap.Content); got != "alpha\nbeta\n" {
		t.Errorf("Content = %q, want %q", got, "alpha\nbeta\n")
	}
	if snap.ModTime.IsZero() {
		t.Error("ModTime is zero for an existing file")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !snap.ModTime.Equal(info.ModTime()) {
		t.Errorf("ModTime = %v, want %v", snap.ModTime, info.ModTime())
	}
}

func TestCaptureMissingFile(t *testing.T) {
	_, err := Capture(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Capture = %v, want fs.ErrNotExist", err)
	}
}

func TestCaptureEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	snap, err := Capture(path)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(snap.Content) != 0 {
		t.Errorf("Content = %q, want empty", snap.Content)
	}
}
