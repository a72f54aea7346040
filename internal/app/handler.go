package app

import (
	"github.com/bianoble/flakewatch/internal/model"
	"github.com/bianoble/flakewatch/internal/ui"
)

// ActionKind discriminates the actions a key press can produce.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionCancelAndQuit
	ActionUpdateSelected
	ActionUpdateAll
	ActionRefresh
	ActionOpenChangelog
	ActionCloseChangelog
	ActionConfirmLock
	ActionShowWarning
)

// Action is what a handled key asks the loop to do next. Handlers mutate
// view-local state (cursor, selection, confirm sub-state) directly and
// return an Action for anything that needs dispatching.
type Action struct {
	Kind     ActionKind
	Names    []string // ActionUpdateSelected
	InputIdx int      // ActionOpenChangelog
	Name     string   // ActionConfirmLock
	LockURL  string   // ActionConfirmLock
	Warning  string   // ActionShowWarning
}

func none() Action { return Action{Kind: ActionNone} }

func warn(msg string) Action { return Action{Kind: ActionShowWarning, Warning: msg} }

func isQuitKey(k ui.Key) bool {
	return k.Kind == ui.KeyEsc || (k.Kind == ui.KeyRune && k.Rune == 'q')
}

// HandleKey routes one key press by the machine's current phase.
func HandleKey(state *State, key ui.Key) Action {
	switch state.Phase {
	case PhaseLoading, PhaseLoadingChangelog:
		if isQuitKey(key) {
			return Action{Kind: ActionCancelAndQuit}
		}
		return none()
	case PhaseError:
		return Action{Kind: ActionQuit}
	case PhaseList:
		return handleListKey(state.List, key)
	case PhaseChangelog:
		return handleChangelogKey(state.Changelog, key)
	default:
		return none()
	}
}

func handleListKey(list *ListState, key ui.Key) Action {
	if len(list.Flake.Inputs) == 0 {
		if isQuitKey(key) {
			return Action{Kind: ActionQuit}
		}
		return none()
	}

	switch {
	case isQuitKey(key):
		if list.HasSelection() {
			list.ClearSelection()
			return none()
		}
		return Action{Kind: ActionQuit}

	case key.Kind == ui.KeyDown, key.Kind == ui.KeyRune && key.Rune == 'j':
		list.CursorDown()
		return none()

	case key.Kind == ui.KeyUp, key.Kind == ui.KeyRune && key.Rune == 'k':
		list.CursorUp()
		return none()

	case key.Kind == ui.KeyRune && key.Rune == ' ':
		if !list.Busy {
			list.ToggleSelection()
		}
		return none()

	case key.Kind == ui.KeyRune && key.Rune == 'u':
		if list.Busy {
			return none()
		}
		names := list.SelectedNames()
		if len(names) == 0 {
			return warn("No inputs selected")
		}
		list.Busy = true
		return Action{Kind: ActionUpdateSelected, Names: names}

	case key.Kind == ui.KeyRune && key.Rune == 'U':
		if list.Busy {
			return none()
		}
		list.Busy = true
		return Action{Kind: ActionUpdateAll}

	case key.Kind == ui.KeyRune && key.Rune == 'r':
		if list.Busy {
			return none()
		}
		list.Busy = true
		return Action{Kind: ActionRefresh}

	case key.Kind == ui.KeyRune && key.Rune == 'c':
		if list.Busy {
			return none()
		}
		if in := inputAt(list, list.Cursor); in != nil && in.Kind == model.KindGit {
			return Action{Kind: ActionOpenChangelog, InputIdx: list.Cursor}
		}
		return warn("Changelog only available for git inputs")

	default:
		return none()
	}
}

func handleChangelogKey(cs *ChangelogState, key ui.Key) Action {
	if cs.Confirming() {
		return handleConfirmKey(cs, key)
	}

	switch {
	case isQuitKey(key):
		return Action{Kind: ActionCloseChangelog}

	case key.Kind == ui.KeyDown, key.Kind == ui.KeyRune && key.Rune == 'j':
		cs.CursorDown()
		return none()

	case key.Kind == ui.KeyUp, key.Kind == ui.KeyRune && key.Rune == 'k':
		cs.CursorUp()
		return none()

	case key.Kind == ui.KeyRune && key.Rune == ' ':
		cs.ShowConfirm()
		return none()

	default:
		return none()
	}
}

func handleConfirmKey(cs *ChangelogState, key ui.Key) Action {
	switch {
	case key.Kind == ui.KeyRune && key.Rune == 'y':
		if cs.ConfirmLock == nil || *cs.ConfirmLock >= len(cs.Data.Commits) {
			return none()
		}
		commit := cs.Data.Commits[*cs.ConfirmLock]
		lockURL := cs.Input.Forge.LockURL(cs.Input.Owner, cs.Input.Repo, commit.SHA, cs.Input.Host)
		if lockURL == "" {
			cs.HideConfirm()
			return warn("Cannot generate lock URL for this input")
		}
		return Action{Kind: ActionConfirmLock, Name: cs.Input.Name, LockURL: lockURL}

	case key.Kind == ui.KeyRune && (key.Rune == 'n' || key.Rune == 'q'), key.Kind == ui.KeyEsc:
		cs.HideConfirm()
		return none()

	default:
		return none()
	}
}

func inputAt(list *ListState, idx int) *model.FlakeInput {
	if idx < 0 || idx >= len(list.Flake.Inputs) {
		return nil
	}
	return &list.Flake.Inputs[idx]
}
