package tui

import (
	"fmt"

	"bugboard/internal/board"
	"bugboard/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	priorityCycle = []string{"P1", "P2", "P3", "P4", "P5"}
	severityCycle = []string{"blocker", "critical", "major", "normal", "minor", "trivial", "enhancement"}
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.isApplying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case minibufferClearMsg:
		// Only clear if no newer message replaced the text since the timer
		// was armed.
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case bugsLoadedMsg:
		return m.handleBugsLoaded(msg)

	case applyDoneMsg:
		return m.handleApplyDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) handleBugsLoaded(msg bugsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.fromCache {
		// The cache only seeds the initial board; once anything is loaded
		// (e.g. the remote answered first), the cached copy is stale.
		if msg.err != "" || len(msg.bugs) == 0 || len(m.bugs) > 0 {
			return m, nil
		}
		m.setBugs(msg.bugs)
		return m, nil
	}

	m.loading = false
	if msg.err != "" {
		m.loadErr = msg.err
		cmd := m.showMinibuffer("refresh failed: "+msg.err, 0)
		return m, cmd
	}
	m.loadErr = ""
	m.setBugs(msg.bugs)
	return m, nil
}

func (m appModel) handleApplyDone(msg applyDoneMsg) (tea.Model, tea.Cmd) {
	m.isApplying = false

	// Drop ledger entries for bugs the tracker accepted, unless the user
	// staged further edits while the batch was in flight.
	for id, snap := range msg.result.Succeeded {
		if m.led.ClearIfUnchanged(id, snap) {
			m.mover.Forget(id)
		}
	}
	m.rebuild()

	cmd := m.showMinibuffer(msg.result.Summary(), minibufferDefaultTTL)
	if msg.result.FailCount() == 0 {
		// Re-sync so the board reflects the tracker's view of the batch.
		m.loading = true
		return m, tea.Batch(cmd, m.spin.Tick, m.refreshFromRemote())
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModal(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, m.quitCmd()
	case "ctrl+s":
		if m.isApplying {
			return m, m.showMinibuffer("a batch is already being applied", minibufferDefaultTTL)
		}
		n := m.led.Size()
		if n == 0 {
			return m, m.showMinibuffer("nothing staged", minibufferDefaultTTL)
		}
		if m.applier.Updater == nil {
			return m, m.showMinibuffer("no tracker configured; staged changes kept", minibufferDefaultTTL)
		}
		cmd := m.startApply()
		note := m.showMinibuffer(fmt.Sprintf("applying %d change(s)…", n), 0)
		return m, tea.Batch(cmd, m.spin.Tick, note)
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.refreshFromRemote())
	}

	// Board keys are inert while a refresh is in flight.
	if m.loading {
		return m, nil
	}

	switch m.state {
	case stateGrabbing:
		return m.handleGrabbingKey(msg)
	case stateSelected:
		return m.handleSelectedKey(msg)
	default:
		return m.handleIdleKey(msg)
	}
}

func (m appModel) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "right", "l", "up", "k", "down", "j", "enter", " ":
		// Board navigation is inert until there is something to select.
		ci, ok := m.firstNonEmptyColumn()
		if !ok {
			return m, nil
		}
		m.state = stateSelected
		m.sel = selection{Col: ci, Row: 0, BugID: m.cols[ci].Bugs[0].ID}

	case "esc":
		if m.led.Size() > 0 {
			m.openConfirmClear()
		}
	}
	return m, nil
}

func (m appModel) handleSelectedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b, ok := m.selectedBug()
	if !ok {
		m.state = stateIdle
		m.sel = selection{}
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.moveSelection(-1, 0)
	case "right", "l":
		m.moveSelection(+1, 0)
	case "up", "k":
		m.moveSelection(0, -1)
	case "down", "j":
		m.moveSelection(0, +1)

	case " ", "g":
		m.state = stateGrabbing
		m.grab = grabState{BugID: b.ID, Origin: m.sel.Col, Target: m.sel.Col}

	case "a":
		m.openAssigneePicker(b)
	case "p":
		m.led.StagePriority(b.ID, b.Priority, cycleValue(priorityCycle, m.led.EffectivePriority(b)))
		m.rebuild()
	case "s":
		m.led.StageSeverity(b.ID, b.Severity, cycleValue(severityCycle, m.led.EffectiveSeverity(b)))
	case "P":
		m.openPointsEditor(b)
	case "v":
		to := board.QAApproved
		if m.led.EffectiveQAFlag(b, m.rules.QAFlagName) == board.QAApproved {
			to = ""
		}
		m.mover.StageQAFlag(b, to)
	case "u":
		m.led.Clear(b.ID)
		m.mover.Forget(b.ID)
		m.rebuild()
		return m, m.showMinibuffer(fmt.Sprintf("#%d: staged changes discarded", b.ID), minibufferDefaultTTL)

	case "tab", "d", "enter":
		m.showDetail = !m.showDetail

	case "esc":
		if m.led.Size() > 0 {
			m.openConfirmClear()
			return m, nil
		}
		m.state = stateIdle
		m.sel = selection{}
	}
	return m, nil
}

// openConfirmClear arms the discard-everything confirmation. Focus starts on
// the discard button so a bare enter clears the ledger.
func (m *appModel) openConfirmClear() {
	m.modal = modalConfirmClear
	m.confirmFocus = confirmFocusConfirm
}

func (m *appModel) moveSelection(dcol, drow int) {
	switch {
	case dcol != 0:
		// Browsing skips empty columns; there is nothing to land on.
		ci, ok := m.nearestNonEmptyColumn(m.sel.Col, dcol)
		if !ok {
			return
		}
		m.sel.Col = ci
		if n := len(m.cols[ci].Bugs); m.sel.Row >= n {
			m.sel.Row = n - 1
		}
	case drow != 0:
		r := m.sel.Row + drow
		if r < 0 || r >= len(m.cols[m.sel.Col].Bugs) {
			return
		}
		m.sel.Row = r
	}
	m.sel.BugID = m.cols[m.sel.Col].Bugs[m.sel.Row].ID
}

func (m appModel) handleGrabbingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		// Unlike browsing, a grabbed card may target an empty column.
		if m.grab.Target > 0 {
			m.grab.Target--
		}
	case "right", "l":
		if m.grab.Target < len(m.cols)-1 {
			m.grab.Target++
		}
	case "up", "k", "down", "j":
		// Row position within the target is decided by the board sort.

	case " ", "g", "enter":
		return m.dropGrabbedCard()

	case "esc":
		m.state = stateSelected
		m.grab = grabState{}
	}
	return m, nil
}

func (m appModel) dropGrabbedCard() (tea.Model, tea.Cmd) {
	grab := m.grab
	m.state = stateSelected
	m.grab = grabState{}

	if grab.Target == grab.Origin {
		return m, nil
	}
	b, ok := m.bugByID(grab.BugID)
	if !ok {
		m.clampSelection()
		return m, nil
	}
	from := m.cols[grab.Origin].Column
	to := m.cols[grab.Target].Column

	// Only the final target is validated; the path the cursor took across
	// other columns does not matter.
	if err := m.rules.ValidateMove(b, m.led, from, to); err != nil {
		return m, m.showMinibuffer(err.Error(), minibufferDefaultTTL)
	}

	m.mover.StageMove(b, from, to)
	m.sel.BugID = b.ID
	m.rebuild()
	return m, nil
}

func (m appModel) bugByID(id int) (model.Bug, bool) {
	for _, b := range m.bugs {
		if b.ID == id {
			return b, true
		}
	}
	return model.Bug{}, false
}

func cycleValue(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalConfirmClear:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "enter":
			confirmed := m.confirmFocus == confirmFocusConfirm
			m.modal = modalNone
			if confirmed {
				m.led.ClearAll()
				m.mover.ForgetAll()
				m.rebuild()
				return m, m.showMinibuffer("staged changes discarded", minibufferDefaultTTL)
			}
		}
		return m, nil

	case modalPickAssignee:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.modalForBug = 0
			return m, nil
		case "enter":
			item, ok := m.assigneeList.SelectedItem().(assigneePickItem)
			id := m.modalForBug
			m.modal = modalNone
			m.modalForBug = 0
			if !ok {
				return m, nil
			}
			if b, found := m.bugByID(id); found {
				m.led.StageAssignee(b.ID, b.AssignedTo, item.email)
				m.rebuild()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.assigneeList, cmd = m.assigneeList.Update(msg)
		return m, cmd

	case modalEditPoints:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.modalForBug = 0
			return m, nil
		case "enter":
			pts, ok := parsePoints(m.pointsInput.Value())
			if !ok {
				return m, m.showMinibuffer("points must be a small whole number", minibufferDefaultTTL)
			}
			id := m.modalForBug
			m.modal = modalNone
			m.modalForBug = 0
			if b, found := m.bugByID(id); found {
				m.led.StagePoints(b.ID, b.Points, pts)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.pointsInput, cmd = m.pointsInput.Update(msg)
		return m, cmd
	}

	m.modal = modalNone
	return m, nil
}
