package tui

import (
	"bugboard/internal/model"
	"bugboard/internal/reconcile"
)

// uiState is the keyboard interaction state.
type uiState int

const (
	stateIdle uiState = iota
	stateSelected
	stateGrabbing
)

type modalKind int

const (
	modalNone modalKind = iota
	// modalConfirmClear asks before discarding all staged changes; the
	// first Escape on a dirty board does not discard anything.
	modalConfirmClear
	modalPickAssignee
	modalEditPoints
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// selection tracks the focused card. BugID is the stable identity, preferred
// over the row index for tracking focus across re-sorts and column changes.
type selection struct {
	Col   int
	Row   int
	BugID int
}

// grabState is only meaningful while state == stateGrabbing.
type grabState struct {
	BugID  int
	Origin int
	Target int
}

type bugsLoadedMsg struct {
	bugs      []model.Bug
	err       string
	fromCache bool
}

type applyDoneMsg struct {
	result reconcile.Result
}

type minibufferClearMsg struct{ seq int }
