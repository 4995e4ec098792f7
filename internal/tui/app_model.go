package tui

import (
	"context"
	"time"

	"bugboard/internal/board"
	"bugboard/internal/ledger"
	"bugboard/internal/model"
	"bugboard/internal/reconcile"
	"bugboard/internal/remote"
	"bugboard/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	cfg   store.Config
	rules board.Rules
	led   *ledger.Ledger
	mover *board.Mover

	repo    remote.Repository
	applier reconcile.Applier
	cache   store.Cache

	bugs []model.Bug
	cols []board.BoardColumn

	width  int
	height int

	loading bool
	loadErr string

	state uiState
	sel   selection
	grab  grabState

	// isApplying guards against a second concurrent batch submission; it
	// does not block other interaction while a batch is in flight.
	isApplying bool

	modal        modalKind
	confirmFocus confirmModalFocus
	modalForBug  int
	assigneeList list.Model
	pointsInput  textinput.Model

	spin spinner.Model

	showDetail bool

	minibufferText string
	minibufferSeq  int
}

func newAppModel(cfg store.Config, repo remote.Repository, updater remote.Updater, cache store.Cache) appModel {
	rules := cfg.Rules()
	led := ledger.New()

	m := appModel{
		cfg:     cfg,
		rules:   rules,
		led:     led,
		mover:   board.NewMover(rules, led),
		repo:    repo,
		applier: reconcile.Applier{Rules: rules, Updater: updater},
		cache:   cache,
		loading: true,
	}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.assigneeList = newPickList("Assignee", "Select an assignee")

	m.pointsInput = textinput.New()
	m.pointsInput.Placeholder = "points"
	m.pointsInput.CharLimit = 3
	m.pointsInput.Width = 8

	m.cols = rules.Build(nil, led)

	// Best-effort: restore the last selection for this board.
	if st, err := store.LoadTUIState(); err == nil {
		m.sel = selection{Col: st.SelectedColumn, BugID: st.SelectedBugID}
		if st.SelectedBugID != 0 {
			m.state = stateSelected
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadFromCache(), m.refreshFromRemote())
}

// rebuild regroups bugs into columns after any bug or ledger change, and
// re-clamps the selection onto the new layout.
func (m *appModel) rebuild() {
	m.cols = m.rules.Build(m.bugs, m.led)
	m.clampSelection()
}

func (m *appModel) setBugs(bugs []model.Bug) {
	m.bugs = bugs
	m.rebuild()
}

func (m appModel) loadFromCache() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		bugs, _, err := cache.LoadBugs(ctx)
		if err != nil {
			return bugsLoadedMsg{fromCache: true, err: err.Error()}
		}
		return bugsLoadedMsg{fromCache: true, bugs: bugs}
	}
}

func (m appModel) refreshFromRemote() tea.Cmd {
	repo := m.repo
	cache := m.cache
	return func() tea.Msg {
		if repo == nil {
			return bugsLoadedMsg{err: "no tracker configured"}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		bugs, err := repo.FetchBugs(ctx)
		if err != nil {
			return bugsLoadedMsg{err: err.Error()}
		}
		_ = cache.SaveBugs(ctx, bugs)
		return bugsLoadedMsg{bugs: bugs}
	}
}

// startApply snapshots the ledger and submits the batch off the UI loop.
// New edits keep landing in the live ledger while the batch is in flight.
func (m *appModel) startApply() tea.Cmd {
	if m.isApplying || m.led.Size() == 0 || m.applier.Updater == nil {
		return nil
	}
	m.isApplying = true
	snapshot := m.led.Snapshot()
	applier := m.applier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return applyDoneMsg{result: applier.Apply(ctx, snapshot)}
	}
}

func (m appModel) quitCmd() tea.Cmd {
	st := &store.TUIState{
		Version:        1,
		SelectedColumn: m.sel.Col,
		SelectedBugID:  m.sel.BugID,
	}
	_ = store.SaveTUIState(st)
	return tea.Quit
}
