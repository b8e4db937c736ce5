package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	s.animate = false
	return s, &buf
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := quietSpinner(ctx, "Rendering...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Rendering...")
	s.Start()
	time.Sleep(60 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Rendering...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerNoAnimationOffTerminal(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Rendering...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q while not animating", buf.String())
	}
}

func TestSpinnerAnimates(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Rendering...")
	s.animate = true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains(buf.Bytes(), []byte("Rendering...")) {
		t.Errorf("spinner output = %q, want message", buf.String())
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	out := captureStdout(t)

	s, _ := quietSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithSuccess("Done")

	s, _ = quietSpinner(context.Background(), "Rendering...")
	s.Start()
	s.StopWithError("Failed")

	got := out.String()
	if !bytes.Contains([]byte(got), []byte("Done")) || !bytes.Contains([]byte(got), []byte("Failed")) {
		t.Errorf("output = %q, want both messages", got)
	}
}
