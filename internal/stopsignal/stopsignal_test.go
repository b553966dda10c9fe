package stopsignal

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestReaderFiresOnFirstByte(t *testing.T) {
	if err := Reader(strings.NewReader("x")).Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestReaderWaitsForContextAtEOF(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Reader(strings.NewReader("")).Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestReaderCanceledWhileBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Reader(pr).Wait(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestCancelReleasesPendingRead(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer pr.Close()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Reader(pr).Wait(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// nothing is left reading, so the next byte is still there for us
	if _, err := pw.Write([]byte("y")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var b [1]byte
	if err := pr.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	if _, err := pr.Read(b[:]); err != nil || b[0] != 'y' {
		t.Fatalf("expected to read the byte back, got %q, %v", b[0], err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("bad fd")
}

func TestReaderError(t *testing.T) {
	err := Reader(failingReader{}).Wait(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad fd") {
		t.Fatalf("expected read error, got %v", err)
	}
}
