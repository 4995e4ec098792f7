package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const tuiStateFileName = "tui_state.json"

// TUIState restores the last board selection on relaunch. It is
// intentionally best effort: callers tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// SelectedColumn is the board column index of the last selection.
	SelectedColumn int `json:"selectedColumn,omitempty"`

	// SelectedBugID is preferred over the row index so selection survives
	// re-sorts and column changes across sessions.
	SelectedBugID int `json:"selectedBugId,omitempty"`
}

func tuiStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	path, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	path, err := tuiStatePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(filepath.Dir(path), tuiStateFileName+".*.tmp", path, b, 0o644)
}
