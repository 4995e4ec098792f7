package tui

import (
	"sort"
	"strconv"
	"strings"

	"bugboard/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

func newPickList(title, help string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// The modal box renders its own chrome, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("entry", "entries")
	// Bubble list defaults to quitting on ESC; here ESC is "cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

type assigneePickItem struct {
	email string
	label string
}

func (i assigneePickItem) Title() string {
	if i.label != "" {
		return i.label
	}
	return i.email
}

func (i assigneePickItem) Description() string {
	if i.label != "" && i.label != i.email {
		return i.email
	}
	return ""
}

func (i assigneePickItem) FilterValue() string {
	return strings.ToLower(i.email + " " + i.label)
}

// assigneeCandidates merges the configured assignee roster with every
// assignee currently visible on the board, unassigned first.
func (m appModel) assigneeCandidates() []assigneePickItem {
	seen := map[string]bool{}
	out := []assigneePickItem{{email: m.rules.Unassigned, label: "(unassigned)"}}
	seen[m.rules.Unassigned] = true

	add := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		out = append(out, assigneePickItem{email: email})
	}
	for _, a := range m.cfg.Assignees {
		add(a)
	}
	rest := make([]string, 0, len(m.bugs))
	for _, b := range m.bugs {
		if a := strings.TrimSpace(b.AssignedTo); a != "" && !seen[a] {
			seen[a] = true
			rest = append(rest, a)
		}
	}
	sort.Strings(rest)
	for _, a := range rest {
		out = append(out, assigneePickItem{email: a})
	}
	return out
}

func (m *appModel) openAssigneePicker(b model.Bug) {
	cands := m.assigneeCandidates()
	items := make([]list.Item, 0, len(cands))
	cur := m.led.EffectiveAssignee(b)
	curIdx := 0
	for i, c := range cands {
		items = append(items, c)
		if c.email == cur {
			curIdx = i
		}
	}
	m.assigneeList.SetItems(items)
	m.assigneeList.Select(curIdx)

	h := len(items) + 2
	if h > 14 {
		h = 14
	}
	if h < 6 {
		h = 6
	}
	m.assigneeList.SetSize(modalBodyWidth(m.width), h)

	m.modal = modalPickAssignee
	m.modalForBug = b.ID
}

func (m *appModel) openPointsEditor(b model.Bug) {
	m.pointsInput.Reset()
	if pts := m.led.EffectivePoints(b); pts != model.PointsUnknown {
		m.pointsInput.SetValue(strconv.Itoa(pts))
	}
	m.pointsInput.Focus()
	m.modal = modalEditPoints
	m.modalForBug = b.ID
}

// parsePoints accepts a small non-negative estimate; empty clears the field.
func parsePoints(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.PointsUnknown, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 999 {
		return 0, false
	}
	return n, true
}

func (m appModel) renderAssigneeModal() string {
	body := m.assigneeList.View() + "\n\n" + styleMuted().Render("enter: set   esc: cancel")
	return renderModalBox(m.width, "Assign", body)
}

func (m appModel) renderPointsModal() string {
	body := m.pointsInput.View() + "\n\n" + styleMuted().Render("enter: set   esc: cancel   (empty clears)")
	return renderModalBox(m.width, "Points", body)
}
