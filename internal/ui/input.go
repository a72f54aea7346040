package ui

import (
	"os"
	"time"

	"golang.org/x/term"
)

// TerminalInput reads key presses from a terminal in raw mode.
// A background goroutine owns the file descriptor; decoded keys are
// handed to Poll through a channel.
type TerminalInput struct {
	keys    chan Key
	oldMode *term.State
	fd      int
}

// NewTerminalInput switches the terminal to raw mode and starts the
// reader goroutine.
func NewTerminalInput() (*TerminalInput, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	in := &TerminalInput{
		keys:    make(chan Key, 8),
		oldMode: old,
		fd:      fd,
	}
	go in.readLoop()
	return in, nil
}

// Poll returns the next key if one arrives within the timeout.
func (in *TerminalInput) Poll(timeout time.Duration) (Key, bool) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case k, ok := <-in.keys:
		return k, ok
	case <-t.C:
		return Key{}, false
	}
}

// Close restores the terminal mode. The reader goroutine exits on the
// next read error after stdin is closed by process teardown.
func (in *TerminalInput) Close() error {
	return term.Restore(in.fd, in.oldMode)
}

func (in *TerminalInput) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(in.keys)
			return
		}
		for _, k := range decodeKeys(buf[:n]) {
			in.keys <- k
		}
	}
}

// decodeKeys turns a chunk of raw terminal bytes into key events.
// Only the sequences the state machine reacts to are decoded; anything
// else is passed through as runes or dropped.
func decodeKeys(b []byte) []Key {
	var keys []Key
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0x1b:
			// CSI arrow sequences arrive as ESC [ A/B; a lone ESC is
			// the escape key itself.
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'A':
					keys = append(keys, Key{Kind: KeyUp})
					i += 2
					continue
				case 'B':
					keys = append(keys, Key{Kind: KeyDown})
					i += 2
					continue
				}
			}
			keys = append(keys, Key{Kind: KeyEsc})
		case c == '\r' || c == '\n':
			keys = append(keys, Key{Kind: KeyEnter})
		case c == 0x03: // ctrl-c
			keys = append(keys, Key{Kind: KeyRune, Rune: 'q'})
		case c >= 0x20 && c < 0x7f:
			keys = append(keys, Key{Kind: KeyRune, Rune: rune(c)})
		}
	}
	return keys
}
