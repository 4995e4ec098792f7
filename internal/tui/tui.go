package tui

import (
	"bugboard/internal/remote"
	"bugboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive board and blocks until the user quits.
func Run(cfg store.Config, repo remote.Repository, updater remote.Updater, cache store.Cache) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(cfg, repo, updater, cache)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
