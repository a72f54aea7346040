// Package ui defines the seam between the state machine and the
// terminal: an abstract key event, a view snapshot, and the Renderer and
// KeySource interfaces the front end is driven through. Terminal layout,
// colors and theming live entirely behind Renderer.
package ui

import (
	"time"

	"github.com/bianoble/flakewatch/internal/model"
)

// KeyKind discriminates the key events the state machine understands.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyUp
	KeyDown
	KeyEsc
	KeyEnter
)

// Key is one decoded key press.
type Key struct {
	Kind KeyKind
	Rune rune // set when Kind == KeyRune
}

// KeySource delivers key presses to the control loop.
type KeySource interface {
	// Poll returns the next key if one arrives within the timeout.
	Poll(timeout time.Duration) (Key, bool)
}

// ViewKind discriminates the view snapshots.
type ViewKind int

const (
	ViewLoading ViewKind = iota
	ViewError
	ViewList
	ViewChangelog
)

// View is an immutable snapshot of what should be on screen.
type View struct {
	Kind    ViewKind
	Message string // loading text or fatal error

	Flake     *model.FlakeData
	Cursor    int
	Selected  map[int]bool
	Statuses  map[string]model.UpdateStatus
	Busy      bool
	Changelog *ChangelogView

	Status *model.StatusMessage
	Tick   uint64
}

// ChangelogView is the changelog-specific part of a snapshot.
type ChangelogView struct {
	InputName   string
	Data        model.ChangelogData
	Cursor      int
	ConfirmLock *int
}

// Renderer draws view snapshots.
type Renderer interface {
	Render(v View) error
	Close() error
}
