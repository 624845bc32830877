package ni845x

import (
	"errors"
	"testing"
)

func TestGuardReleaseOnce(t *testing.T) {
	calls := 0
	g := handleGuard{
		op:     "release",
		handle: 7,
		release: func(h Handle) Status {
			calls++
			return noError
		},
	}

	if err := g.close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := g.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if calls != 1 {
		t.Fatalf("release called %d times, want 1", calls)
	}
}

func TestGuardGetAfterClose(t *testing.T) {
	g := handleGuard{handle: 3, release: func(Handle) Status { return noError }}

	h, err := g.get()
	if err != nil || h != 3 {
		t.Fatalf("get before close: %v, %v", h, err)
	}
	if err := g.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := g.get(); !errors.Is(err, ErrHandleClosed) {
		t.Fatalf("get after close: %v, want ErrHandleClosed", err)
	}
}

func TestGuardCloseFailureStillCloses(t *testing.T) {
	s := newStubDriver()
	s.messages[5] = "device disconnected"

	calls := 0
	g := handleGuard{
		d:      s,
		op:     "ni845xClose",
		handle: 9,
		release: func(Handle) Status {
			calls++
			return 5
		},
	}

	err := g.close()
	var drvErr *Error
	if !errors.As(err, &drvErr) {
		t.Fatalf("close error = %v, want *Error", err)
	}
	if drvErr.Status != 5 || drvErr.Message != "device disconnected" {
		t.Fatalf("unexpected error detail: %+v", drvErr)
	}

	// Guard stays closed after a failed release: no retry, no error replay.
	if err := g.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if calls != 1 {
		t.Fatalf("release called %d times, want 1", calls)
	}
	if _, err := g.get(); !errors.Is(err, ErrHandleClosed) {
		t.Fatalf("get after failed close: %v, want ErrHandleClosed", err)
	}
}
