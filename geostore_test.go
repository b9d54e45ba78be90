package geostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
)

func TestShouldRetryClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"not exist", os.ErrNotExist, false},
		{"permission", os.ErrPermission, false},
		{"no space", syscall.ENOSPC, false},
		{"read-only text", fmt.Errorf("blocked: read-only file system"), false},
		{"transient", fmt.Errorf("resource temporarily unavailable"), true},
	}
	for _, c := range cases {
		if got := ShouldRetry(c.err); got != c.want {
			t.Fatalf("%s: ShouldRetry = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := fmt.Errorf("disk detached")
	err := error(Error{Code: FileIOError, Err: inner, UserData: "key1"})

	if !errors.Is(err, inner) {
		t.Fatalf("wrapped error should unwrap to the inner error")
	}
	var gerr Error
	if !errors.As(err, &gerr) || gerr.Code != FileIOError {
		t.Fatalf("errors.As should recover the Error with its code")
	}
	if err.Error() == "" {
		t.Fatalf("Error() should render a message")
	}
}

func TestUUIDBasics(t *testing.T) {
	id := NewUUID()
	if id.IsNil() {
		t.Fatalf("NewUUID returned the nil UUID")
	}
	parsed, err := ParseUUID(id.String())
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if parsed != id {
		t.Fatalf("parse of %s returned %s", id.String(), parsed.String())
	}
	if !NilUUID.IsNil() {
		t.Fatalf("NilUUID should be nil")
	}
}

func TestTaskRunner(t *testing.T) {
	tr := NewTaskRunner(context.Background(), 2)
	results := make([]int, 4)
	for i := range results {
		tr.Go(func() error {
			results[i] = i + 1
			return nil
		})
	}
	if err := tr.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	for i, r := range results {
		if r != i+1 {
			t.Fatalf("task %d did not run", i)
		}
	}

	tr = NewTaskRunner(context.Background(), 0)
	boom := fmt.Errorf("boom")
	tr.Go(func() error { return boom })
	if err := tr.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait should surface the task error, got %v", err)
	}
}
