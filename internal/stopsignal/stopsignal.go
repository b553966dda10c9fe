package stopsignal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Trigger blocks until capture should stop
type Trigger interface {
	// Wait returns nil when the trigger fires, or ctx.Err() when ctx is done first.
	Wait(ctx context.Context) error
}

type keypress struct {
	in       io.Reader
	fd       int
	terminal bool
}

// Keypress returns a Trigger that fires on the first byte read from f. A
// terminal is switched to raw mode while waiting so that any key counts, not
// just Enter.
func Keypress(f *os.File) Trigger {
	fd := int(f.Fd())
	return &keypress{in: f, fd: fd, terminal: term.IsTerminal(fd)}
}

// Reader returns a Trigger that fires on the first byte read from r.
func Reader(r io.Reader) Trigger {
	return &keypress{in: r}
}

func (k *keypress) Wait(ctx context.Context) error {
	if k.terminal {
		old, err := term.MakeRaw(k.fd)
		if err != nil {
			return fmt.Errorf("failed to set terminal raw mode: %w", err)
		}
		defer term.Restore(k.fd, old)
	}

	got := make(chan error, 1)
	go func() {
		var b [1]byte
		for {
			n, err := k.in.Read(b[:])
			if n > 0 {
				got <- nil
				return
			}
			if err != nil {
				got <- err
				return
			}
		}
	}()

	select {
	case err := <-got:
		if errors.Is(err, io.EOF) {
			// nothing left to read; only ctx can stop us now
			<-ctx.Done()
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("failed to read stop key: %w", err)
		}
		return nil
	case <-ctx.Done():
		k.abandon(got)
		return ctx.Err()
	}
}

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// abandon interrupts the pending read and waits for the reader goroutine. If
// the input cannot take a deadline (a blocking stdin) the goroutine stays in
// Read until the next byte arrives or the process exits.
func (k *keypress) abandon(got <-chan error) {
	d, ok := k.in.(deadliner)
	if !ok || d.SetReadDeadline(time.Now()) != nil {
		return
	}
	<-got
	d.SetReadDeadline(time.Time{})
}
