package app

import (
	"github.com/bianoble/flakewatch/internal/model"
)

// Phase names the state machine's states:
//
//	Loading → {List | Error}
//	List ⇄ LoadingChangelog → {Changelog | List with error status}
//	Changelog → List (close)
//	List | Changelog → Quitting
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseList
	PhaseLoadingChangelog
	PhaseChangelog
	PhaseQuitting
)

// State is the closed tagged variant of the machine. List is set in the
// List and LoadingChangelog phases, Changelog in the Changelog phase.
// All mutation happens on the control loop goroutine, one keystroke or
// one delivered result at a time, so no locking guards it.
type State struct {
	Phase     Phase
	Err       string
	List      *ListState
	Changelog *ChangelogState
}

// ListState is the input table view.
type ListState struct {
	Flake    model.FlakeData
	Cursor   int
	Selected map[int]bool
	Statuses map[string]model.UpdateStatus

	// Busy gates overlapping long operations; it is set synchronously on
	// dispatch and cleared only when the matching result arrives.
	Busy bool
}

// NewListState builds the list view for freshly loaded flake data.
func NewListState(flake model.FlakeData) *ListState {
	return &ListState{
		Flake:    flake,
		Selected: make(map[int]bool),
		Statuses: make(map[string]model.UpdateStatus),
	}
}

// CursorDown moves the cursor one row down.
func (l *ListState) CursorDown() {
	if l.Cursor < len(l.Flake.Inputs)-1 {
		l.Cursor++
	}
}

// CursorUp moves the cursor one row up.
func (l *ListState) CursorUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// ToggleSelection flips the selection mark under the cursor.
func (l *ListState) ToggleSelection() {
	if l.Selected[l.Cursor] {
		delete(l.Selected, l.Cursor)
	} else {
		l.Selected[l.Cursor] = true
	}
}

// ClearSelection drops all selection marks.
func (l *ListState) ClearSelection() {
	clear(l.Selected)
}

// HasSelection reports whether any row is marked.
func (l *ListState) HasSelection() bool {
	return len(l.Selected) > 0
}

// SelectedNames returns the names of the marked inputs.
func (l *ListState) SelectedNames() []string {
	var names []string
	for idx := range l.Selected {
		if idx < len(l.Flake.Inputs) {
			names = append(names, l.Flake.Inputs[idx].Name())
		}
	}
	return names
}

// ReplaceFlake swaps in reloaded flake data: the input list is replaced
// wholesale, the cursor clamps, out-of-range selections drop, and stale
// update statuses clear.
func (l *ListState) ReplaceFlake(flake model.FlakeData) {
	l.Flake = flake
	l.Busy = false
	if l.Cursor >= len(flake.Inputs) {
		l.Cursor = len(flake.Inputs) - 1
		if l.Cursor < 0 {
			l.Cursor = 0
		}
	}
	for idx := range l.Selected {
		if idx >= len(flake.Inputs) {
			delete(l.Selected, idx)
		}
	}
	clear(l.Statuses)
}

// ChangelogState is the commit history view for one input. It carries the
// parent list state with it: ownership moves here on navigation and moves
// back on close, so the two views never alias.
type ChangelogState struct {
	Input    model.GitInput
	InputIdx int
	Data     model.ChangelogData
	Cursor   int

	// ConfirmLock is the nested confirm sub-state: a pending commit
	// index, entered by an explicit user action and exited by confirm,
	// cancel, or lock completion/failure.
	ConfirmLock *int

	ParentList *ListState
}

// NewChangelogState opens the changelog with the cursor on the locked
// commit when there is one.
func NewChangelogState(input model.GitInput, inputIdx int, data model.ChangelogData, parent *ListState) *ChangelogState {
	cursor := 0
	if data.LockedIdx != nil {
		cursor = *data.LockedIdx
	}
	return &ChangelogState{
		Input:      input,
		InputIdx:   inputIdx,
		Data:       data,
		Cursor:     cursor,
		ParentList: parent,
	}
}

// CursorDown moves the cursor one commit down.
func (c *ChangelogState) CursorDown() {
	if c.Cursor < len(c.Data.Commits)-1 {
		c.Cursor++
	}
}

// CursorUp moves the cursor one commit up.
func (c *ChangelogState) CursorUp() {
	if c.Cursor > 0 {
		c.Cursor--
	}
}

// ShowConfirm enters the confirm sub-state for the commit under the
// cursor.
func (c *ChangelogState) ShowConfirm() {
	if len(c.Data.Commits) > 0 {
		idx := c.Cursor
		c.ConfirmLock = &idx
	}
}

// HideConfirm leaves the confirm sub-state.
func (c *ChangelogState) HideConfirm() {
	c.ConfirmLock = nil
}

// Confirming reports whether the confirm sub-state is active.
func (c *ChangelogState) Confirming() bool {
	return c.ConfirmLock != nil
}

// ChangelogLoaded carries a finished changelog fetch back to the loop,
// including the parent list whose ownership travelled with the task.
type ChangelogLoaded struct {
	Input      model.GitInput
	InputIdx   int
	Data       model.ChangelogData
	ParentList *ListState
}

// TaskResult is one message from a background task. Exactly one of the
// pointer fields is set.
type TaskResult struct {
	FlakeLoaded     *FlakeLoadedResult
	UpdateComplete  *OpResult
	ChangelogLoaded *ChangelogLoadedResult
	LockComplete    *OpResult
	InputStatus     *InputStatusResult
}

// FlakeLoadedResult is the outcome of a metadata load or refresh.
type FlakeLoadedResult struct {
	Flake *model.FlakeData
	Err   error
}

// OpResult is the outcome of an update or lock operation.
type OpResult struct {
	Err error
}

// ChangelogLoadedResult is the outcome of a changelog fetch.
type ChangelogLoadedResult struct {
	Loaded *ChangelogLoaded
	Err    error
}

// InputStatusResult is one per-input status emission from a check pass.
type InputStatusResult struct {
	Name   string
	Status model.UpdateStatus
}
