package hook

import (
	"testing"
)

func TestRunPriorityOrder(t *testing.T) {
	m := NewManager()
	var order []string

	m.RegisterFunc(BufOpenFifo, "low", 1, func(ev Event, bufName, payload string) {
		order = append(order, "low")
	})
	m.RegisterFunc(BufOpenFifo, "high", 10, func(ev Event, bufName, payload string) {
		order = append(order, "high")
	})
	m.RegisterFunc(BufOpenFifo, "mid", 5, func(ev Event, bufName, payload string) {
		order = append(order, "mid")
	})

	m.Run(BufOpenFifo, "*out*", "*out*")

	want := []string{"high", "mid", "low"}
	if len(order) != len(want) {
		t.Fatalf("ran %d handlers, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("position %d: got %q, want %q", i, order[i], name)
		}
	}
}

func TestRegisterReplacesByName(t *testing.T) {
	m := NewManager()
	var got string

	m.RegisterFunc(BufReadFifo, "sink", 0, func(ev Event, bufName, payload string) {
		got = "first"
	})
	m.RegisterFunc(BufReadFifo, "sink", 0, func(ev Event, bufName, payload string) {
		got = "second"
	})

	if count := m.Count(BufReadFifo); count != 1 {
		t.Fatalf("Count = %d, want 1", count)
	}

	m.Run(BufReadFifo, "b", "data")
	if got != "second" {
		t.Errorf("replacement handler did not run, got %q", got)
	}
}

func TestUnregister(t *testing.T) {
	m := NewManager()
	ran := false

	m.RegisterFunc(BufCloseFifo, "once", 0, func(ev Event, bufName, payload string) {
		ran = true
	})

	if !m.Unregister(BufCloseFifo, "once") {
		t.Fatal("Unregister returned false for a registered handler")
	}
	if m.Unregister(BufCloseFifo, "once") {
		t.Error("Unregister returned true for a removed handler")
	}

	m.Run(BufCloseFifo, "b", "")
	if ran {
		t.Error("unregistered handler ran")
	}
}

func TestRunDeliversEventAndPayload(t *testing.T) {
	m := NewManager()
	var gotEv Event
	var gotBuf, gotPayload string

	m.RegisterFunc(BufReadFifo, "capture", 0, func(ev Event, bufName, payload string) {
		gotEv = ev
		gotBuf = bufName
		gotPayload = payload
	})

	m.Run(BufReadFifo, "*fifo*", "hello\n")

	if gotEv != BufReadFifo {
		t.Errorf("event = %q, want %q", gotEv, BufReadFifo)
	}
	if gotBuf != "*fifo*" {
		t.Errorf("buffer = %q, want %q", gotBuf, "*fifo*")
	}
	if gotPayload != "hello\n" {
		t.Errorf("payload = %q, want %q", gotPayload, "hello\n")
	}
}

func TestRunUnknownEventIsNoop(t *testing.T) {
	m := NewManager()
	m.Run(BufNewFile, "b", "b")

	if count := m.Count(BufNewFile); count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}
