package model

import (
	"strconv"
	"time"
)

// StatusKind discriminates the update-check states for an input.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusChecking
	StatusUpToDate
	StatusBehind
	StatusError
)

// UpdateStatus is the per-input result of an update check.
// It moves Unknown → Checking → {UpToDate | Behind | Error}.
type UpdateStatus struct {
	Kind   StatusKind
	Behind int    // set when Kind == StatusBehind
	Reason string // set when Kind == StatusError
}

// Checking is the in-progress status.
func Checking() UpdateStatus { return UpdateStatus{Kind: StatusChecking} }

// UpToDate is the zero-commits-behind terminal status.
func UpToDate() UpdateStatus { return UpdateStatus{Kind: StatusUpToDate} }

// BehindBy is the terminal status for an input n commits behind its remote.
func BehindBy(n int) UpdateStatus { return UpdateStatus{Kind: StatusBehind, Behind: n} }

// CheckError is the terminal status for a failed check.
func CheckError(reason string) UpdateStatus {
	return UpdateStatus{Kind: StatusError, Reason: reason}
}

// Display returns the compact status cell for the list view.
func (s UpdateStatus) Display() string {
	switch s.Kind {
	case StatusChecking:
		return "..."
	case StatusUpToDate:
		return "ok"
	case StatusBehind:
		return "+" + strconv.Itoa(s.Behind)
	case StatusError:
		return "?"
	default:
		return "-"
	}
}

// StatusLevel selects the styling of a status bar message.
type StatusLevel int

const (
	LevelInfo StatusLevel = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// StatusMessage is a leveled, optionally auto-expiring status bar message.
type StatusMessage struct {
	Text    string
	Level   StatusLevel
	Expires time.Time // zero means never
}

// Info creates a message that stays until replaced.
func Info(text string) StatusMessage {
	return StatusMessage{Text: text, Level: LevelInfo}
}

// Success creates a message that expires after 3 seconds.
func Success(text string) StatusMessage {
	return StatusMessage{Text: text, Level: LevelSuccess, Expires: time.Now().Add(3 * time.Second)}
}

// Warning creates a message that expires after 4 seconds.
func Warning(text string) StatusMessage {
	return StatusMessage{Text: text, Level: LevelWarning, Expires: time.Now().Add(4 * time.Second)}
}

// Error creates a message that expires after 5 seconds.
func Error(text string) StatusMessage {
	return StatusMessage{Text: text, Level: LevelError, Expires: time.Now().Add(5 * time.Second)}
}

// Expired reports whether the message should be cleared.
func (m StatusMessage) Expired() bool {
	return !m.Expires.IsZero() && time.Now().After(m.Expires)
}
