package app

import (
	"testing"

	"github.com/bianoble/flakewatch/internal/model"
	"github.com/bianoble/flakewatch/internal/ui"
)

func runeKey(r rune) ui.Key { return ui.Key{Kind: ui.KeyRune, Rune: r} }

func listState(names ...string) *State {
	return &State{Phase: PhaseList, List: NewListState(flakeWithInputs(names...))}
}

func TestQuitFromList(t *testing.T) {
	s := listState("a")
	if a := HandleKey(s, runeKey('q')); a.Kind != ActionQuit {
		t.Errorf("q -> %v, want ActionQuit", a.Kind)
	}
	if a := HandleKey(s, ui.Key{Kind: ui.KeyEsc}); a.Kind != ActionQuit {
		t.Errorf("esc -> %v, want ActionQuit", a.Kind)
	}
}

func TestQuitClearsSelectionFirst(t *testing.T) {
	s := listState("a", "b")
	s.List.Selected[0] = true

	if a := HandleKey(s, runeKey('q')); a.Kind != ActionNone {
		t.Fatalf("q with selection -> %v, want ActionNone", a.Kind)
	}
	if s.List.HasSelection() {
		t.Error("selection not cleared")
	}
	if a := HandleKey(s, runeKey('q')); a.Kind != ActionQuit {
		t.Errorf("second q -> %v, want ActionQuit", a.Kind)
	}
}

func TestQuitDuringLoadingCancels(t *testing.T) {
	s := &State{Phase: PhaseLoading}
	if a := HandleKey(s, runeKey('q')); a.Kind != ActionCancelAndQuit {
		t.Errorf("q while loading -> %v, want ActionCancelAndQuit", a.Kind)
	}

	s = &State{Phase: PhaseLoadingChangelog}
	if a := HandleKey(s, ui.Key{Kind: ui.KeyEsc}); a.Kind != ActionCancelAndQuit {
		t.Errorf("esc while loading changelog -> %v", a.Kind)
	}
}

func TestAnyKeyQuitsErrorView(t *testing.T) {
	s := &State{Phase: PhaseError, Err: "boom"}
	if a := HandleKey(s, runeKey('x')); a.Kind != ActionQuit {
		t.Errorf("key on error view -> %v, want ActionQuit", a.Kind)
	}
}

func TestUpdateSelected(t *testing.T) {
	s := listState("a", "b")
	s.List.Selected[1] = true

	a := HandleKey(s, runeKey('u'))
	if a.Kind != ActionUpdateSelected {
		t.Fatalf("u -> %v", a.Kind)
	}
	if len(a.Names) != 1 || a.Names[0] != "b" {
		t.Errorf("names = %v", a.Names)
	}
	if !s.List.Busy {
		t.Error("busy not set on dispatch")
	}
}

func TestUpdateWithoutSelectionWarns(t *testing.T) {
	s := listState("a")
	a := HandleKey(s, runeKey('u'))
	if a.Kind != ActionShowWarning {
		t.Errorf("u without selection -> %v, want warning", a.Kind)
	}
	if s.List.Busy {
		t.Error("busy set for a no-op")
	}
}

func TestBusyGatesOperations(t *testing.T) {
	s := listState("a")
	s.List.Busy = true

	for _, r := range []rune{'u', 'U', 'r', 'c', ' '} {
		if a := HandleKey(s, runeKey(r)); a.Kind != ActionNone {
			t.Errorf("%q while busy -> %v, want ActionNone", r, a.Kind)
		}
	}
	if s.List.HasSelection() {
		t.Error("space while busy changed selection")
	}

	// Navigation stays live while busy.
	HandleKey(s, runeKey('j'))
	if s.List.Cursor != 0 {
		t.Errorf("cursor = %d", s.List.Cursor)
	}
}

func TestOpenChangelogOnlyForGitInputs(t *testing.T) {
	s := listState("a")
	if a := HandleKey(s, runeKey('c')); a.Kind != ActionOpenChangelog || a.InputIdx != 0 {
		t.Errorf("c on git input -> %+v", a)
	}

	s.List.Flake.Inputs[0] = model.FlakeInput{
		Kind: model.KindPath,
		Path: &model.PathInput{Name: "a", Path: "/p"},
	}
	if a := HandleKey(s, runeKey('c')); a.Kind != ActionShowWarning {
		t.Errorf("c on path input -> %v, want warning", a.Kind)
	}
}

func TestChangelogKeys(t *testing.T) {
	data := model.ChangelogData{Commits: []model.Commit{
		{SHA: "bbb2222222"}, {SHA: "aaa1111111"},
	}}
	input := model.GitInput{Name: "in", Forge: model.ForgeGitHub, Owner: "o", Repo: "r"}
	s := &State{Phase: PhaseChangelog, Changelog: NewChangelogState(input, 0, data, nil)}

	if a := HandleKey(s, runeKey('q')); a.Kind != ActionCloseChangelog {
		t.Errorf("q -> %v", a.Kind)
	}

	HandleKey(s, runeKey('j'))
	if s.Changelog.Cursor != 1 {
		t.Errorf("cursor = %d", s.Changelog.Cursor)
	}

	HandleKey(s, runeKey(' '))
	if !s.Changelog.Confirming() {
		t.Fatal("space did not open confirm")
	}

	// q inside confirm cancels the confirm, not the view.
	if a := HandleKey(s, runeKey('q')); a.Kind != ActionNone {
		t.Errorf("q in confirm -> %v", a.Kind)
	}
	if s.Changelog.Confirming() {
		t.Error("confirm still active")
	}
}

func TestConfirmLockBuildsURL(t *testing.T) {
	data := model.ChangelogData{Commits: []model.Commit{{SHA: "abc1234567890"}}}
	input := model.GitInput{Name: "nixpkgs", Forge: model.ForgeGitHub, Owner: "NixOS", Repo: "nixpkgs"}
	s := &State{Phase: PhaseChangelog, Changelog: NewChangelogState(input, 0, data, nil)}

	HandleKey(s, runeKey(' '))
	a := HandleKey(s, runeKey('y'))
	if a.Kind != ActionConfirmLock {
		t.Fatalf("y -> %v", a.Kind)
	}
	if a.Name != "nixpkgs" {
		t.Errorf("name = %q", a.Name)
	}
	if a.LockURL != "github:NixOS/nixpkgs/abc1234567890" {
		t.Errorf("lock url = %q", a.LockURL)
	}
}

func TestConfirmLockGenericForgeWarns(t *testing.T) {
	data := model.ChangelogData{Commits: []model.Commit{{SHA: "abc"}}}
	input := model.GitInput{Name: "weird", Forge: model.ForgeGeneric}
	s := &State{Phase: PhaseChangelog, Changelog: NewChangelogState(input, 0, data, nil)}

	HandleKey(s, runeKey(' '))
	a := HandleKey(s, runeKey('y'))
	if a.Kind != ActionShowWarning {
		t.Errorf("y on generic forge -> %v, want warning", a.Kind)
	}
	if s.Changelog.Confirming() {
		t.Error("confirm not dismissed after warning")
	}
}

func TestEmptyListOnlyQuits(t *testing.T) {
	s := &State{Phase: PhaseList, List: NewListState(model.FlakeData{})}
	if a := HandleKey(s, runeKey('U')); a.Kind != ActionNone {
		t.Errorf("U on empty list -> %v", a.Kind)
	}
	if a := HandleKey(s, runeKey('q')); a.Kind != ActionQuit {
		t.Errorf("q on empty list -> %v", a.Kind)
	}
}
