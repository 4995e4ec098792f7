// Package reconcile commits staged diffs to the tracker and reports the
// per-bug outcome back to the caller. A batch is atomic per bug, never
// across bugs: partial failure is an expected, normal result.
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"bugboard/internal/board"
	"bugboard/internal/model"
	"bugboard/internal/remote"
)

// Result is the outcome of one batch.
type Result struct {
	// Succeeded maps bug id to the snapshot that was submitted. The caller
	// removes these from the ledger with ClearIfUnchanged, so edits staged
	// mid-flight survive the commit.
	Succeeded map[int]model.StagedChange

	// Failed maps bug id to the submission error; those bugs stay staged so
	// the user can retry or inspect.
	Failed map[int]error
}

func (r Result) SuccessCount() int { return len(r.Succeeded) }
func (r Result) FailCount() int    { return len(r.Failed) }

// Summary renders the three distinguishable outcome classes: total success,
// partial success, and whole-batch failure.
func (r Result) Summary() string {
	ok, bad := len(r.Succeeded), len(r.Failed)
	switch {
	case bad == 0:
		return fmt.Sprintf("Applied %d change(s)", ok)
	case ok == 0:
		return fmt.Sprintf("Apply failed: all %d change(s) still staged", bad)
	default:
		return fmt.Sprintf("Applied %d change(s), %d failed (still staged)", ok, bad)
	}
}

// Applier translates staged changes into the tracker's update vocabulary and
// submits them.
type Applier struct {
	Rules   board.Rules
	Updater remote.Updater
}

// Apply submits each staged bug independently. The snapshot must be taken at
// submit time (Ledger.Snapshot); Apply never touches the live ledger.
func (a Applier) Apply(ctx context.Context, snapshot map[int]model.StagedChange) Result {
	res := Result{
		Succeeded: map[int]model.StagedChange{},
		Failed:    map[int]error{},
	}

	ids := make([]int, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		change := snapshot[id]
		up := a.translate(change)
		if err := a.Updater.UpdateBug(ctx, id, up); err != nil {
			res.Failed[id] = err
			continue
		}
		res.Succeeded[id] = change
	}
	return res
}

// translate maps one staged change onto a tracker update. The ledger's field
// slots map 1:1 onto the tracker vocabulary; the column slot expands into a
// status (and possibly resolution) transition.
func (a Applier) translate(c model.StagedChange) remote.BugUpdate {
	var up remote.BugUpdate
	if c.Column != nil {
		up.Status, up.Resolution = statusUpdateFor(c.Column.From, c.Column.To)
	}
	if c.Assignee != nil {
		up.AssignedTo = c.Assignee.To
	}
	if c.Priority != nil {
		up.Priority = c.Priority.To
	}
	if c.Severity != nil {
		up.Severity = c.Severity.To
	}
	if c.Points != nil {
		pts := c.Points.To
		up.Points = &pts
	}
	if c.Whiteboard != nil {
		wb := c.Whiteboard.To
		up.Whiteboard = &wb
	}
	if c.QAFlag != nil {
		up.Flags = append(up.Flags, remote.FlagChange{
			Name:   a.Rules.QAFlagName,
			Status: c.QAFlag.To,
		})
	}
	return up
}

// statusUpdateFor picks the tracker status transition implied by a column
// move. Moves between Backlog and Todo are whiteboard-only (both columns are
// open statuses), so they produce no status change.
func statusUpdateFor(from, to model.Column) (status string, resolution *string) {
	openish := func(c model.Column) bool {
		return c == model.ColumnBacklog || c == model.ColumnTodo
	}
	switch {
	case openish(to):
		if openish(from) {
			return "", nil
		}
		empty := ""
		return "REOPENED", &empty
	case to == model.ColumnInProgress:
		return "ASSIGNED", nil
	case to == model.ColumnInTesting, to == model.ColumnDone:
		fixed := board.ResolutionFixed
		return board.StatusResolved, &fixed
	default:
		return "", nil
	}
}
