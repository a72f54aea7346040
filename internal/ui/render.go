package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bianoble/flakewatch/internal/model"
	"github.com/bianoble/flakewatch/internal/timeutil"
)

// ANSI fragments used by the renderer. Kept as plain constants so the
// draw code stays readable.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiRev    = "\x1b[7m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"

	ansiClear      = "\x1b[2J\x1b[H"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// TerminalRenderer draws view snapshots to a terminal with plain ANSI
// escape sequences. Every frame is rendered into a buffer and written in
// a single syscall to avoid tearing.
type TerminalRenderer struct {
	out io.Writer
	buf strings.Builder
}

// NewTerminalRenderer prepares stdout for full-screen drawing.
func NewTerminalRenderer() *TerminalRenderer {
	r := &TerminalRenderer{out: os.Stdout}
	fmt.Fprint(r.out, ansiHideCursor)
	return r
}

// Close clears the screen and restores the cursor.
func (r *TerminalRenderer) Close() error {
	_, err := fmt.Fprint(r.out, ansiClear+ansiShowCursor)
	return err
}

// Render draws one snapshot.
func (r *TerminalRenderer) Render(v View) error {
	width, height := r.size()
	r.buf.Reset()
	r.buf.WriteString(ansiClear)

	switch v.Kind {
	case ViewLoading:
		r.line(ansiDim + spinnerFrame(v.Tick) + " " + v.Message + ansiReset)
	case ViewError:
		r.line(ansiBold + ansiRed + "Error" + ansiReset)
		r.line("")
		r.line(v.Message)
		r.line("")
		r.line(ansiDim + "q quit" + ansiReset)
	case ViewList:
		r.renderList(v, width, height)
	case ViewChangelog:
		r.renderChangelog(v, width, height)
	}

	if v.Status != nil {
		r.line("")
		r.line(statusColor(v.Status.Level) + v.Status.Text + ansiReset)
	}

	_, err := io.WriteString(r.out, r.buf.String())
	return err
}

func (r *TerminalRenderer) renderList(v View, width, height int) {
	title := "flakewatch"
	if v.Flake != nil && v.Flake.Path != "" {
		title += ansiDim + "  " + v.Flake.Path + ansiReset
	}
	r.line(ansiBold + title)
	r.line("")

	if v.Flake == nil || len(v.Flake.Inputs) == 0 {
		r.line(ansiDim + "no inputs in flake.lock" + ansiReset)
		return
	}

	nameW := 0
	for _, in := range v.Flake.Inputs {
		if n := len(in.Name()); n > nameW {
			nameW = n
		}
	}

	first, last := visibleRange(v.Cursor, len(v.Flake.Inputs), height-6)
	for i := first; i < last; i++ {
		in := v.Flake.Inputs[i]
		r.line(r.listRow(v, in, i, nameW, width))
	}

	r.line("")
	hints := "j/k move  space select  u update  U update all  c changelog  r refresh  q quit"
	if v.Busy {
		hints = spinnerFrame(v.Tick) + " working..."
	}
	r.line(ansiDim + truncate(hints, width) + ansiReset)
}

func (r *TerminalRenderer) listRow(v View, in model.FlakeInput, i, nameW, width int) string {
	marker := "  "
	if i == v.Cursor {
		marker = ansiCyan + "> " + ansiReset
	}
	sel := "[ ] "
	if v.Selected[i] {
		sel = ansiYellow + "[x] " + ansiReset
	}

	age := ""
	if ts := in.LastModified(); ts > 0 {
		age = timeutil.RelativeUnix(ts)
	}

	status := ""
	if st, ok := v.Statuses[in.Name()]; ok {
		status = statusCell(st, v.Tick)
	}

	row := fmt.Sprintf("%s%s%-*s  %-9s %-8s %-14s %s",
		marker, sel, nameW, in.Name(), in.TypeDisplay(), in.ShortRev(), age, status)
	return truncate(row, width)
}

func statusCell(st model.UpdateStatus, tick uint64) string {
	switch st.Kind {
	case model.StatusChecking:
		return ansiDim + spinnerFrame(tick) + ansiReset
	case model.StatusUpToDate:
		return ansiGreen + st.Display() + ansiReset
	case model.StatusBehind:
		return ansiYellow + st.Display() + ansiReset
	case model.StatusError:
		return ansiRed + st.Display() + ansiReset
	default:
		return ansiDim + st.Display() + ansiReset
	}
}

func statusColor(level model.StatusLevel) string {
	switch level {
	case model.LevelSuccess:
		return ansiGreen
	case model.LevelWarning:
		return ansiYellow
	case model.LevelError:
		return ansiRed
	default:
		return ""
	}
}

func (r *TerminalRenderer) renderChangelog(v View, width, height int) {
	cl := v.Changelog
	if cl == nil {
		return
	}

	header := fmt.Sprintf("%sChangelog: %s%s", ansiBold, cl.InputName, ansiReset)
	if ahead := cl.Data.CommitsAhead(); ahead > 0 {
		header += ansiYellow + fmt.Sprintf("  %d new", ahead) + ansiReset
	}
	r.line(header)
	r.line("")

	if len(cl.Data.Commits) == 0 {
		r.line(ansiDim + "no commits" + ansiReset)
		return
	}

	first, last := visibleRange(cl.Cursor, len(cl.Data.Commits), height-6)
	for i := first; i < last; i++ {
		c := cl.Data.Commits[i]
		marker := "  "
		if i == cl.Cursor {
			marker = ansiCyan + "> " + ansiReset
		}
		lock := "  "
		if c.IsLocked {
			lock = ansiGreen + "● " + ansiReset
		}
		row := fmt.Sprintf("%s%s%s%s%s  %s %s(%s, %s)%s",
			marker, lock, ansiDim, c.ShortSHA(), ansiReset,
			truncate(c.Message, width/2),
			ansiDim, c.Author, timeutil.RelativeShort(c.Date), ansiReset)
		r.line(truncate(row, width+len(row)-visibleLen(row)))
	}

	r.line("")
	if cl.ConfirmLock != nil && *cl.ConfirmLock < len(cl.Data.Commits) {
		c := cl.Data.Commits[*cl.ConfirmLock]
		r.line(ansiRev + fmt.Sprintf(" Lock %s to %s? (y/n) ", cl.InputName, c.ShortSHA()) + ansiReset)
	} else {
		r.line(ansiDim + "j/k move  space lock to commit  q back" + ansiReset)
	}
}

func (r *TerminalRenderer) line(s string) {
	r.buf.WriteString(s)
	r.buf.WriteString("\r\n")
}

func (r *TerminalRenderer) size() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinnerFrame picks a spinner glyph from the frame counter. The control
// loop ticks every 16ms; dividing keeps the spin rate sane.
func spinnerFrame(tick uint64) string {
	return spinnerFrames[(tick/8)%uint64(len(spinnerFrames))]
}

// visibleRange scrolls a window of n rows so the cursor stays on screen.
func visibleRange(cursor, n, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if n <= rows {
		return 0, n
	}
	first := cursor - rows/2
	if first < 0 {
		first = 0
	}
	if first+rows > n {
		first = n - rows
	}
	return first, first + rows
}

// truncate cuts s to at most width printable characters, ignoring escape
// sequences already embedded in it only at the tail.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// visibleLen counts printable runes, skipping ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == 0x1b:
			inEsc = true
		default:
			n++
		}
	}
	return n
}
