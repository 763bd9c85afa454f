package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerUpdate(t *testing.T) {
	var w syncBuffer
	s := newSpinner("Generating design...")
	s.w = &w
	s.Start()
	s.Update("Generating design... 128 bytes")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(w.String(), "128 bytes") {
		t.Errorf("updated message not drawn: %q", w.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Waiting...")
	s.w = &syncBuffer{}
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled with its context")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Waiting...")
	s.w = &syncBuffer{}
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after the timeout")
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newSpinner("Stopping...")
		s.w = &syncBuffer{}
		s.Start()
		s.Stop()
		s.Stop()
	})

	t.Run("without start", func(t *testing.T) {
		s := newSpinner("Never started")
		s.w = &syncBuffer{}
		done := make(chan struct{})
		go func() {
			s.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked on a spinner that never started")
		}
	})

	t.Run("with result", func(t *testing.T) {
		var buf bytes.Buffer
		prev := out
		out = &buf
		defer func() { out = prev }()

		s := newSpinner("Working...")
		s.w = &syncBuffer{}
		s.Start()
		s.StopWithSuccess("Done")
		s2 := newSpinner("Working...")
		s2.w = &syncBuffer{}
		s2.Start()
		s2.StopWithError("Failed")

		if !strings.Contains(buf.String(), "Done") || !strings.Contains(buf.String(), "Failed") {
			t.Errorf("output = %q", buf.String())
		}
	})
}
