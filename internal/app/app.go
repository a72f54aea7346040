// Package app is the task orchestration around the interactive front
// end: a single-threaded control loop owns all view state, dispatches
// background work to goroutines, and integrates their results one at a
// time from a many-producer/single-consumer queue. Results are FIFO
// within the queue but carry no ordering guarantee across distinct
// operations.
package app

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	gitsvc "github.com/bianoble/flakewatch/internal/git"
	"github.com/bianoble/flakewatch/internal/model"
	"github.com/bianoble/flakewatch/internal/ui"
)

// framePeriod is the key-poll timeout per loop turn.
const framePeriod = 16 * time.Millisecond

// resultQueueSize is generous for the tens of results one pass produces;
// producers additionally select on the quit channel so a dead loop never
// wedges a worker.
const resultQueueSize = 1024

// NixClient is the metadata reader and lock-apply surface the app
// consumes. It is treated as an opaque data source.
type NixClient interface {
	LoadMetadata(ctx context.Context, path string) (*model.FlakeData, error)
	UpdateInputs(ctx context.Context, path string, names []string) error
	UpdateAll(ctx context.Context, path string) error
	LockInput(ctx context.Context, path, name, overrideURL string) error
}

// GitClient is the update/changelog engine surface the app consumes.
type GitClient interface {
	CheckUpdates(ctx context.Context, inputs []model.FlakeInput, onStatus func(string, model.UpdateStatus)) error
	Changelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error)
}

// App drives the interactive session.
type App struct {
	flakePath string
	state     State
	nix       NixClient
	git       GitClient
	canceller *gitsvc.Canceller

	status *model.StatusMessage
	tick   uint64

	results chan TaskResult
	quit    chan struct{}
}

// New creates an App for the flake at path.
func New(flakePath string, nix NixClient, git GitClient, canceller *gitsvc.Canceller) *App {
	return &App{
		flakePath: flakePath,
		state:     State{Phase: PhaseLoading},
		nix:       nix,
		git:       git,
		canceller: canceller,
		results:   make(chan TaskResult, resultQueueSize),
		quit:      make(chan struct{}),
	}
}

// Run executes the control loop until the machine reaches Quitting. Each
// frame it polls at most one key, drains every currently-queued result,
// then redraws.
func (a *App) Run(ctx context.Context, keys ui.KeySource, renderer ui.Renderer) error {
	a.spawnLoadFlake(ctx)

	for a.state.Phase != PhaseQuitting {
		if err := renderer.Render(a.Snapshot()); err != nil {
			return err
		}

		if key, ok := keys.Poll(framePeriod); ok {
			a.HandleKey(ctx, key)
		}

		a.drainResults()

		a.tick++
		if a.status != nil && a.status.Expired() {
			a.status = nil
		}
	}

	close(a.quit)
	return nil
}

// Snapshot builds the view for the current state.
func (a *App) Snapshot() ui.View {
	v := ui.View{Status: a.status, Tick: a.tick}

	switch a.state.Phase {
	case PhaseLoading:
		v.Kind = ui.ViewLoading
		v.Message = "Loading flake..."
	case PhaseError:
		v.Kind = ui.ViewError
		v.Message = a.state.Err
	case PhaseList, PhaseLoadingChangelog:
		list := a.state.List
		v.Kind = ui.ViewList
		v.Flake = &list.Flake
		v.Cursor = list.Cursor
		v.Selected = list.Selected
		v.Statuses = list.Statuses
		v.Busy = list.Busy
	case PhaseChangelog:
		cs := a.state.Changelog
		v.Kind = ui.ViewChangelog
		v.Changelog = &ui.ChangelogView{
			InputName:   cs.Input.Name,
			Data:        cs.Data,
			Cursor:      cs.Cursor,
			ConfirmLock: cs.ConfirmLock,
		}
	}
	return v
}

// HandleKey processes one key press synchronously on the loop goroutine.
func (a *App) HandleKey(ctx context.Context, key ui.Key) {
	a.execute(ctx, HandleKey(&a.state, key))
}

func (a *App) execute(ctx context.Context, action Action) {
	switch action.Kind {
	case ActionNone:

	case ActionQuit:
		a.state = State{Phase: PhaseQuitting}

	case ActionCancelAndQuit:
		a.canceller.Cancel()
		a.state = State{Phase: PhaseQuitting}

	case ActionUpdateSelected:
		a.setStatus(model.Info("Updating " + plural(len(action.Names), "input") + "..."))
		a.spawnUpdate(ctx, action.Names)

	case ActionUpdateAll:
		a.setStatus(model.Info("Updating all inputs..."))
		a.spawnUpdateAll(ctx)

	case ActionRefresh:
		a.setStatus(model.Info("Refreshing..."))
		a.spawnLoadFlake(ctx)

	case ActionOpenChangelog:
		a.openChangelog(ctx, action.InputIdx)

	case ActionCloseChangelog:
		a.closeChangelog()

	case ActionConfirmLock:
		if cs := a.state.Changelog; cs != nil && cs.ConfirmLock != nil {
			if idx := *cs.ConfirmLock; idx < len(cs.Data.Commits) {
				a.setStatus(model.Info("Locking " + action.Name + " to " + cs.Data.Commits[idx].ShortSHA() + "..."))
			}
		}
		a.spawnLock(ctx, action.Name, action.LockURL)

	case ActionShowWarning:
		a.setStatus(model.Warning(action.Warning))
	}
}

// openChangelog moves the list state into the nascent changelog view and
// dispatches the fetch. The list keeps rendering (as LoadingChangelog)
// until the result arrives.
func (a *App) openChangelog(ctx context.Context, idx int) {
	list := a.state.List
	if list == nil {
		return
	}
	in := inputAt(list, idx)
	if in == nil || in.Kind != model.KindGit {
		return
	}

	input := *in.Git
	list.Busy = false
	a.setStatus(model.Info("Loading changelog..."))
	a.state = State{Phase: PhaseLoadingChangelog, List: list}
	a.spawnLoadChangelog(ctx, input, idx, list)
}

// closeChangelog moves ownership of the parent list back out of the
// changelog view.
func (a *App) closeChangelog() {
	if cs := a.state.Changelog; cs != nil {
		a.state = State{Phase: PhaseList, List: cs.ParentList}
	}
}

// drainResults applies every currently-available result before the next
// redraw, so one slow task never stalls the loop.
func (a *App) drainResults() {
	for {
		select {
		case result := <-a.results:
			a.applyResult(result)
		default:
			return
		}
	}
}

// applyResult integrates one background result into the state machine.
func (a *App) applyResult(result TaskResult) {
	switch {
	case result.FlakeLoaded != nil:
		a.applyFlakeLoaded(result.FlakeLoaded)

	case result.UpdateComplete != nil:
		if err := result.UpdateComplete.Err; err != nil {
			a.setStatus(model.Error("Update failed: " + err.Error()))
			if a.state.List != nil {
				a.state.List.Busy = false
			}
			return
		}
		a.setStatus(model.Success("Update complete"))
		if a.state.Phase == PhaseList {
			a.state.List.ClearSelection()
		}
		a.spawnLoadFlake(context.Background())

	case result.ChangelogLoaded != nil:
		a.applyChangelogLoaded(result.ChangelogLoaded)

	case result.LockComplete != nil:
		if err := result.LockComplete.Err; err != nil {
			a.setStatus(model.Error("Lock failed: " + err.Error()))
			if cs := a.state.Changelog; cs != nil {
				cs.HideConfirm()
			}
			return
		}
		a.setStatus(model.Success("Locked successfully"))
		if cs := a.state.Changelog; cs != nil {
			list := cs.ParentList
			list.Busy = true
			a.state = State{Phase: PhaseList, List: list}
		}
		a.spawnLoadFlake(context.Background())

	case result.InputStatus != nil:
		if a.state.List != nil {
			a.state.List.Statuses[result.InputStatus.Name] = result.InputStatus.Status
		}
	}
}

func (a *App) applyFlakeLoaded(res *FlakeLoadedResult) {
	if res.Err != nil {
		// A metadata failure is fatal to the whole view.
		a.state = State{Phase: PhaseError, Err: "Failed to load flake: " + res.Err.Error()}
		return
	}

	if a.state.Phase == PhaseList {
		a.state.List.ReplaceFlake(*res.Flake)
	} else {
		a.state = State{Phase: PhaseList, List: NewListState(*res.Flake)}
	}
	a.status = nil
	a.spawnCheckUpdates(context.Background(), res.Flake.Inputs)
}

func (a *App) applyChangelogLoaded(res *ChangelogLoadedResult) {
	if res.Err != nil {
		a.setStatus(model.Error("Failed to load changelog: " + res.Err.Error()))
		if a.state.Phase == PhaseLoadingChangelog {
			a.state = State{Phase: PhaseList, List: a.state.List}
		}
		return
	}

	loaded := res.Loaded
	a.state = State{
		Phase:     PhaseChangelog,
		Changelog: NewChangelogState(loaded.Input, loaded.InputIdx, loaded.Data, loaded.ParentList),
	}
	a.status = nil
}

func (a *App) setStatus(msg model.StatusMessage) {
	a.status = &msg
}

// send enqueues a result unless the loop has already quit.
func (a *App) send(result TaskResult) {
	select {
	case a.results <- result:
	case <-a.quit:
	}
}

func (a *App) spawnLoadFlake(ctx context.Context) {
	go func() {
		flake, err := a.nix.LoadMetadata(ctx, a.flakePath)
		a.send(TaskResult{FlakeLoaded: &FlakeLoadedResult{Flake: flake, Err: err}})
	}()
}

func (a *App) spawnUpdate(ctx context.Context, names []string) {
	path := a.flakePath
	go func() {
		err := a.nix.UpdateInputs(ctx, path, names)
		a.send(TaskResult{UpdateComplete: &OpResult{Err: err}})
	}()
}

func (a *App) spawnUpdateAll(ctx context.Context) {
	path := a.flakePath
	go func() {
		err := a.nix.UpdateAll(ctx, path)
		a.send(TaskResult{UpdateComplete: &OpResult{Err: err}})
	}()
}

func (a *App) spawnLoadChangelog(ctx context.Context, input model.GitInput, idx int, parent *ListState) {
	go func() {
		data, err := a.git.Changelog(ctx, &input)
		res := &ChangelogLoadedResult{Err: err}
		if err == nil {
			res.Loaded = &ChangelogLoaded{Input: input, InputIdx: idx, Data: *data, ParentList: parent}
		}
		a.send(TaskResult{ChangelogLoaded: res})
	}()
}

func (a *App) spawnLock(ctx context.Context, name, lockURL string) {
	path := a.flakePath
	go func() {
		err := a.nix.LockInput(ctx, path, name, lockURL)
		a.send(TaskResult{LockComplete: &OpResult{Err: err}})
	}()
}

func (a *App) spawnCheckUpdates(ctx context.Context, inputs []model.FlakeInput) {
	go func() {
		err := a.git.CheckUpdates(ctx, inputs, func(name string, status model.UpdateStatus) {
			a.send(TaskResult{InputStatus: &InputStatusResult{Name: name, Status: status}})
		})
		if err != nil {
			log.Debug().Err(err).Msg("update check pass ended early")
		}
	}()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
