package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// modalBoxWidth is the total width of a centered modal for a given terminal
// width; modalBodyWidth is the usable content width inside its padding.
func modalBoxWidth(termWidth int) int {
	w := termWidth - 8
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

func modalBodyWidth(termWidth int) int {
	return modalBoxWidth(termWidth) - 4
}

// renderModalBox draws a titled modal surface. Borders are avoided: some
// terminals show background artifacts when nesting bordered components inside
// a surface with a background color.
func renderModalBox(termWidth int, title string, content string) string {
	boxW := modalBoxWidth(termWidth)
	bodyW := boxW - 4

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		Width(boxW).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	bodyStyle := lipgloss.NewStyle().
		Padding(1, 2).
		Width(boxW).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)

	head := headerStyle.Render(truncateText(title, bodyW))
	body := bodyStyle.Render(normalizePane(content, bodyW, 0))
	return strings.Join([]string{head, body}, "\n")
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

func (m appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
