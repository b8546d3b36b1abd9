package tty

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/term"
)

// Device is the controlling terminal.
const Device = "/dev/tty"

// how long a read blocks before checking for shutdown
const readTimeout = 50 * time.Millisecond

// Terminal is a raw-mode terminal with a reader goroutine feeding Input.
type Terminal struct {
	t     *term.Term
	input chan []byte
	done  chan struct{}
}

// Open the terminal device in raw mode and start reading it.
func Open(device string) (*Terminal, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	if err := t.SetReadTimeout(readTimeout); err != nil {
		_ = t.Restore()
		_ = t.Close()
		return nil, fmt.Errorf("configuring terminal: %w", err)
	}

	tt := &Terminal{
		t:     t,
		input: make(chan []byte, 16),
		done:  make(chan struct{}),
	}

	go tt.read()

	tt.Write(hideCursor + clearScreen)

	return tt, nil
}

func (tt *Terminal) read() {
	defer close(tt.input)

	buf := make([]byte, 64)

	for {
		n, err := tt.t.Read(buf)

		select {
		case <-tt.done:
			return
		default:
		}

		// a timeout reads nothing
		if err != nil && err != io.EOF {
			return
		}
		if n == 0 {
			continue
		}

		b := make([]byte, n)
		copy(b, buf[:n])

		select {
		case tt.input <- b:
		case <-tt.done:
			return
		}
	}
}

// Input delivers the bytes of each read. Closed once the terminal is.
func (tt *Terminal) Input() <-chan []byte {
	return tt.input
}

// Write raw output.
func (tt *Terminal) Write(s string) {
	_, _ = tt.t.Write([]byte(s))
}

// Draw redraws the screen from the top left.
func (tt *Terminal) Draw(screen, status string) {
	tt.Write(home + screen + status + "\x1b[K\r\n")
}

// Close restores the terminal.
func (tt *Terminal) Close() error {
	close(tt.done)

	tt.Write(showCursor + "\r\n")

	if err := tt.t.Restore(); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}

	return tt.t.Close()
}
