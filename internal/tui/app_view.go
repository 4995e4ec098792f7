package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading…"
	}

	switch m.modal {
	case modalConfirmClear:
		body := fmt.Sprintf("Discard %d staged change(s)?", m.led.Size())
		return m.placeCentered(renderConfirmModal(m.width, "Clear staged changes", body, "Discard", "Keep", m.confirmFocus))
	case modalPickAssignee:
		return m.placeCentered(m.renderAssigneeModal())
	case modalEditPoints:
		return m.placeCentered(m.renderPointsModal())
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	if b, ok := m.selectedBug(); ok && m.showDetail {
		detailW := m.width / 3
		if detailW < 28 {
			detailW = 28
		}
		if detailW > m.width-24 {
			detailW = m.width - 24
		}
		boardW := m.width - detailW - 1
		sep := normalizePane(strings.Repeat(glyphVRule()+"\n", bodyH), 1, bodyH)
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderBoard(boardW, bodyH),
			styleMuted().Render(sep),
			m.renderDetail(b, detailW, bodyH),
		)
	} else {
		body = m.renderBoard(m.width, bodyH)
	}

	return strings.Join([]string{header, body, footer}, "\n")
}

func (m appModel) renderHeader() string {
	left := "bugboard"
	if p := strings.TrimSpace(m.cfg.Product); p != "" {
		left += "  " + p
	}
	if m.loading {
		left += "  " + m.spin.View() + "loading"
	}
	if m.isApplying {
		left += "  " + m.spin.View() + "applying"
	}

	right := ""
	if n := m.led.Size(); n > 0 {
		right = fmt.Sprintf("%s %d staged  ctrl+s: apply", glyphStaged(), n)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	st := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	return st.Render(normalizePane(bar, m.width, 1))
}

func (m appModel) renderFooter() string {
	if m.minibufferText != "" {
		st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
		if m.loadErr != "" && m.minibufferText == m.loadErr {
			st = st.Foreground(colorErrorFg)
		}
		return st.Render(normalizePane(" "+m.minibufferText, m.width, 1))
	}

	var help string
	switch m.state {
	case stateIdle:
		help = "arrows/hjkl: select   r: refresh   q: quit"
	case stateGrabbing:
		help = "←/→: choose column   space/enter: drop   esc: cancel"
	default:
		help = "space: grab   a: assign   p/s: priority/severity   P: points   v: " + m.rules.QAFlagName + "   d: detail   u: undo bug   esc: deselect   q: quit"
	}
	return styleMuted().Render(normalizePane(" "+help, m.width, 1))
}
