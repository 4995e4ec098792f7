package tui

import (
	"fmt"
	"strings"

	"bugboard/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// indexOfBugID finds a bug's position on the board.
func (m appModel) indexOfBugID(id int) (int, int, bool) {
	if id == 0 {
		return 0, 0, false
	}
	for ci := range m.cols {
		for ri := range m.cols[ci].Bugs {
			if m.cols[ci].Bugs[ri].ID == id {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

// clampSelection keeps the selection valid against the current board.
// Stable selection by bug id is preferred; otherwise indexes are clamped.
func (m *appModel) clampSelection() {
	if m.state == stateIdle {
		return
	}
	if ci, ri, ok := m.indexOfBugID(m.sel.BugID); ok {
		m.sel.Col, m.sel.Row = ci, ri
		return
	}
	m.sel.BugID = 0
	if m.sel.Col < 0 {
		m.sel.Col = 0
	}
	if m.sel.Col >= len(m.cols) {
		m.sel.Col = len(m.cols) - 1
	}
	n := len(m.cols[m.sel.Col].Bugs)
	if n == 0 {
		// Fall back to the nearest non-empty column; an empty board drops
		// to Idle.
		if ci, ok := m.firstNonEmptyColumn(); ok {
			m.sel.Col = ci
			m.sel.Row = 0
			m.sel.BugID = m.cols[ci].Bugs[0].ID
			return
		}
		m.state = stateIdle
		m.sel = selection{}
		return
	}
	if m.sel.Row < 0 {
		m.sel.Row = 0
	}
	if m.sel.Row >= n {
		m.sel.Row = n - 1
	}
	m.sel.BugID = m.cols[m.sel.Col].Bugs[m.sel.Row].ID
}

func (m appModel) firstNonEmptyColumn() (int, bool) {
	for ci := range m.cols {
		if len(m.cols[ci].Bugs) > 0 {
			return ci, true
		}
	}
	return 0, false
}

// nearestNonEmptyColumn finds the closest non-empty column in the given
// direction (-1 left, +1 right). Browsing skips empty columns; grabbing
// deliberately does not (the destination may legitimately be empty).
func (m appModel) nearestNonEmptyColumn(from, dir int) (int, bool) {
	for ci := from + dir; ci >= 0 && ci < len(m.cols); ci += dir {
		if len(m.cols[ci].Bugs) > 0 {
			return ci, true
		}
	}
	return 0, false
}

func (m appModel) selectedBug() (model.Bug, bool) {
	if m.state == stateIdle {
		return model.Bug{}, false
	}
	if m.sel.Col < 0 || m.sel.Col >= len(m.cols) {
		return model.Bug{}, false
	}
	bs := m.cols[m.sel.Col].Bugs
	if m.sel.Row < 0 || m.sel.Row >= len(bs) {
		return model.Bug{}, false
	}
	return bs[m.sel.Row], true
}

// Render hooks for the presentation layer (and tests): which row is
// selected in a column, whether a column holds the grabbed card, and
// whether a column is the current drop target.

func (m appModel) selectedIndexForColumn(col int) int {
	if m.state == stateIdle || m.sel.Col != col {
		return -1
	}
	return m.sel.Row
}

func (m appModel) isGrabbingForColumn(col int) bool {
	return m.state == stateGrabbing && m.grab.Origin == col
}

func (m appModel) isDropTargetForColumn(col int) bool {
	return m.state == stateGrabbing && m.grab.Target == col
}

// renderBoard draws the five columns side by side. Layout follows the
// columns view: whitespace defines the cards, headers carry the counts, and
// a grabbed card is marked rather than visually detached.
func (m appModel) renderBoard(width, height int) string {
	n := len(m.cols)
	if n == 0 || width <= 0 {
		return normalizePane("", width, height)
	}

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 12 {
		colW = 12
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	headerDropStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent)

	rendered := make([]string, 0, n)
	for ci, col := range m.cols {
		rendered = append(rendered, m.renderColumn(ci, col.Column, colW, height, headerStyle, headerSelectedStyle, headerDropStyle))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return normalizePane(out, width, height)
}

func (m appModel) renderColumn(ci int, col model.Column, colW, height int, header, headerSelected, headerDrop lipgloss.Style) string {
	bugs := m.cols[ci].Bugs

	head := fmt.Sprintf("%s (%d)", col, len(bugs))
	head = truncateText(head, colW)
	hs := header
	switch {
	case m.isDropTargetForColumn(ci):
		hs = headerDrop
	case m.selectedIndexForColumn(ci) >= 0:
		hs = headerSelected
	}

	lines := make([]string, 0, height)
	lines = append(lines, hs.Width(colW).Render(head))

	if len(bugs) == 0 {
		lines = append(lines, styleMuted().Render("(empty)"))
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	lines = append(lines, "")
	selRow := m.selectedIndexForColumn(ci)
	for ri, b := range bugs {
		card := m.renderCard(b, colW, ri == selRow, m.state == stateGrabbing && b.ID == m.grab.BugID)
		lines = append(lines, strings.Split(card, "\n")...)
		if ri < len(bugs)-1 {
			sepW := colW - 2
			if sepW < 0 {
				sepW = 0
			}
			lines = append(lines, styleMuted().Render(" "+strings.Repeat(glyphHRule(), sepW)+" "))
		}
	}
	return normalizePane(strings.Join(lines, "\n"), colW, height)
}

func (m appModel) renderCard(b model.Bug, colW int, selected, grabbed bool) string {
	itemStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	itemSelectedStyle := itemStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	innerW := colW - 2
	if innerW < 1 {
		innerW = 1
	}

	prefix := "  "
	if grabbed {
		prefix = glyphGrab() + " "
	} else if _, dirty := m.led.Entry(b.ID); dirty {
		prefix = glyphStaged() + " "
	}

	title := strings.TrimSpace(b.Summary)
	if title == "" {
		title = "(no summary)"
	}
	titleLines := wrapText(fmt.Sprintf("#%d %s", b.ID, title), innerW, prefix, "  ")

	titleStyle := lipgloss.NewStyle().Bold(true)
	if selected {
		titleStyle = titleStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
	}

	meta := m.cardMetaLine(b, innerW)

	content := make([]string, 0, len(titleLines)+1)
	for _, ln := range titleLines {
		content = append(content, titleStyle.Render(ln))
	}
	if meta != "" {
		content = append(content, meta)
	}

	inner := normalizePane(strings.Join(content, "\n"), innerW, 0)
	if selected {
		return itemSelectedStyle.Render(inner)
	}
	return itemStyle.Render(inner)
}

// cardMetaLine renders the effective (staged-aware) secondary fields:
// assignee, priority, severity, points.
func (m appModel) cardMetaLine(b model.Bug, maxW int) string {
	tokens := make([]string, 0, 4)

	if a := m.led.EffectiveAssignee(b); a != "" && a != m.rules.Unassigned {
		tokens = append(tokens, shortAssignee(a))
	}
	if p := m.led.EffectivePriority(b); p != "" && p != "--" {
		tokens = append(tokens, p)
	}
	if s := m.led.EffectiveSeverity(b); s != "" && s != "--" {
		tokens = append(tokens, s)
	}
	if pts := m.led.EffectivePoints(b); pts != model.PointsUnknown {
		tokens = append(tokens, fmt.Sprintf("%dpt", pts))
	}
	if len(tokens) == 0 {
		return ""
	}
	line := "  " + strings.Join(tokens, " ")
	line = truncateText(line, maxW)
	return metaStyle().Render(line)
}

// shortAssignee trims an email assignee down to its local part for card
// rendering; the detail pane shows the full value.
func shortAssignee(a string) string {
	if i := strings.IndexByte(a, '@'); i > 0 {
		return a[:i]
	}
	return a
}

// wrapText word-wraps plain text (ANSI-unaware input) to maxW columns with a
// distinct first-line prefix.
func wrapText(s string, maxW int, firstPrefix, contPrefix string) []string {
	if maxW <= 0 {
		return []string{""}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{firstPrefix}
	}
	firstAvail := maxW - xansi.StringWidth(firstPrefix)
	contAvail := maxW - xansi.StringWidth(contPrefix)
	if firstAvail < 1 {
		firstAvail = 1
	}
	if contAvail < 1 {
		contAvail = 1
	}

	words := strings.Fields(s)
	lines := make([]string, 0, 3)
	prefix := firstPrefix
	avail := firstAvail
	cur := ""

	flush := func() {
		lines = append(lines, prefix+cur)
		prefix = contPrefix
		avail = contAvail
		cur = ""
	}

	for _, w := range words {
		// Hard-cut words wider than the column.
		for xansi.StringWidth(w) > avail {
			if cur != "" {
				flush()
			}
			cur = xansi.Cut(w, 0, avail)
			w = xansi.Cut(w, avail, xansi.StringWidth(w))
			flush()
		}
		switch {
		case cur == "":
			cur = w
		case xansi.StringWidth(cur)+1+xansi.StringWidth(w) <= avail:
			cur += " " + w
		default:
			flush()
			cur = w
		}
	}
	if cur != "" || len(lines) == 0 {
		flush()
	}
	return lines
}
