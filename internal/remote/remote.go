// Package remote is the boundary to the bug tracker. The core treats the
// tracker as two narrow collaborators: a repository that supplies the
// current bugs and an updater that applies per-bug field updates.
package remote

import (
	"context"

	"bugboard/internal/model"
)

// Repository supplies the current bug list. The board treats the result as a
// value and re-resolves columns whenever it (or the ledger) changes.
type Repository interface {
	FetchBugs(ctx context.Context) ([]model.Bug, error)
}

// Updater applies one bug's staged diffs to the tracker. Each call is
// atomic per bug; the batch reconciler tracks success and failure
// independently across bugs.
type Updater interface {
	UpdateBug(ctx context.Context, id int, up BugUpdate) error
}

// FlagChange sets one tracker flag to a new state.
type FlagChange struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// BugUpdate is the tracker's field-update vocabulary. Zero-valued fields are
// omitted from the request; pointer fields distinguish "set to empty" from
// "leave alone".
type BugUpdate struct {
	Status     string       `json:"status,omitempty"`
	Resolution *string      `json:"resolution,omitempty"`
	AssignedTo string       `json:"assigned_to,omitempty"`
	Priority   string       `json:"priority,omitempty"`
	Severity   string       `json:"severity,omitempty"`
	Points     *int         `json:"points,omitempty"`
	Whiteboard *string      `json:"whiteboard,omitempty"`
	Flags      []FlagChange `json:"flags,omitempty"`
}

// Empty reports whether the update carries no field changes at all.
func (u BugUpdate) Empty() bool {
	return u.Status == "" &&
		u.Resolution == nil &&
		u.AssignedTo == "" &&
		u.Priority == "" &&
		u.Severity == "" &&
		u.Points == nil &&
		u.Whiteboard == nil &&
		len(u.Flags) == 0
}
