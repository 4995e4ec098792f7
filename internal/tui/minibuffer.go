package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const minibufferDefaultTTL = 4 * time.Second

// showMinibuffer sets the status line and schedules its clear. The sequence
// number makes a stale timer harmless when a newer message replaced the text.
func (m *appModel) showMinibuffer(text string, ttl time.Duration) tea.Cmd {
	m.minibufferText = text
	m.minibufferSeq++
	seq := m.minibufferSeq
	if ttl <= 0 {
		return nil
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return minibufferClearMsg{seq: seq}
	})
}
