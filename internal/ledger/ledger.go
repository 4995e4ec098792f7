// Package ledger holds staged per-field edits awaiting batch commit.
//
// The ledger is a dumb keyed store: it stages, reverts and reads diffs, and
// nothing else. Cross-field propagation rules (sprint marker, QA flag) live
// in the board package, which drives the ledger through these primitives.
package ledger

import (
	"sort"

	"bugboard/internal/model"
)

type Ledger struct {
	entries map[int]*model.StagedChange
}

func New() *Ledger {
	return &Ledger{entries: map[int]*model.StagedChange{}}
}

// stageSlot upserts one field slot. The original From is preserved across
// repeated edits of the same field; staging back to that original deletes
// the slot (no-op revert).
func stageSlot[T comparable](slot **model.Diff[T], from, to T) {
	base := from
	if *slot != nil {
		base = (*slot).From
	}
	if to == base {
		*slot = nil
		return
	}
	*slot = &model.Diff[T]{From: base, To: to}
}

func (l *Ledger) entry(id int) *model.StagedChange {
	e := l.entries[id]
	if e == nil {
		e = &model.StagedChange{}
		l.entries[id] = e
	}
	return e
}

// compact removes the bug's entry when its last slot was reverted, keeping
// the "empty entry never exists" invariant.
func (l *Ledger) compact(id int) {
	if e := l.entries[id]; e != nil && e.Empty() {
		delete(l.entries, id)
	}
}

func (l *Ledger) StageColumn(id int, from, to model.Column) {
	stageSlot(&l.entry(id).Column, from, to)
	l.compact(id)
}

func (l *Ledger) StageAssignee(id int, from, to string) {
	stageSlot(&l.entry(id).Assignee, from, to)
	l.compact(id)
}

func (l *Ledger) StagePoints(id int, from, to int) {
	stageSlot(&l.entry(id).Points, from, to)
	l.compact(id)
}

func (l *Ledger) StagePriority(id int, from, to string) {
	stageSlot(&l.entry(id).Priority, from, to)
	l.compact(id)
}

func (l *Ledger) StageSeverity(id int, from, to string) {
	stageSlot(&l.entry(id).Severity, from, to)
	l.compact(id)
}

func (l *Ledger) StageQAFlag(id int, from, to string) {
	stageSlot(&l.entry(id).QAFlag, from, to)
	l.compact(id)
}

func (l *Ledger) StageWhiteboard(id int, from, to string) {
	stageSlot(&l.entry(id).Whiteboard, from, to)
	l.compact(id)
}

// ColumnOverride returns the staged column for a bug, if any.
func (l *Ledger) ColumnOverride(id int) (model.Column, bool) {
	if e := l.entries[id]; e != nil && e.Column != nil {
		return e.Column.To, true
	}
	return model.ColumnBacklog, false
}

// Effective* return the post-edit value of a field: the staged To when the
// slot is populated, else the bug's own value.

func (l *Ledger) EffectiveAssignee(b model.Bug) string {
	if e := l.entries[b.ID]; e != nil && e.Assignee != nil {
		return e.Assignee.To
	}
	return b.AssignedTo
}

func (l *Ledger) EffectivePoints(b model.Bug) int {
	if e := l.entries[b.ID]; e != nil && e.Points != nil {
		return e.Points.To
	}
	return b.Points
}

func (l *Ledger) EffectivePriority(b model.Bug) string {
	if e := l.entries[b.ID]; e != nil && e.Priority != nil {
		return e.Priority.To
	}
	return b.Priority
}

func (l *Ledger) EffectiveSeverity(b model.Bug) string {
	if e := l.entries[b.ID]; e != nil && e.Severity != nil {
		return e.Severity.To
	}
	return b.Severity
}

func (l *Ledger) EffectiveQAFlag(b model.Bug, flagName string) string {
	if e := l.entries[b.ID]; e != nil && e.QAFlag != nil {
		return e.QAFlag.To
	}
	return b.Flag(flagName)
}

func (l *Ledger) EffectiveWhiteboard(b model.Bug) string {
	if e := l.entries[b.ID]; e != nil && e.Whiteboard != nil {
		return e.Whiteboard.To
	}
	return b.Whiteboard
}

// Entry returns a copy of the bug's staged change.
func (l *Ledger) Entry(id int) (model.StagedChange, bool) {
	if e := l.entries[id]; e != nil {
		return e.Clone(), true
	}
	return model.StagedChange{}, false
}

// Size is the number of bugs with pending changes.
func (l *Ledger) Size() int { return len(l.entries) }

// IDs returns the staged bug ids in ascending order.
func (l *Ledger) IDs() []int {
	out := make([]int, 0, len(l.entries))
	for id := range l.entries {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Snapshot deep-copies the current ledger contents. The reconciler submits
// from a snapshot so in-flight batches are isolated from later edits.
func (l *Ledger) Snapshot() map[int]model.StagedChange {
	out := make(map[int]model.StagedChange, len(l.entries))
	for id, e := range l.entries {
		out[id] = e.Clone()
	}
	return out
}

func (l *Ledger) Clear(id int) { delete(l.entries, id) }

func (l *Ledger) ClearAll() { l.entries = map[int]*model.StagedChange{} }

// ClearIfUnchanged removes the bug's entry only if it still equals the given
// snapshot. A successful commit must not discard edits staged after the
// submission started.
func (l *Ledger) ClearIfUnchanged(id int, snapshot model.StagedChange) bool {
	e := l.entries[id]
	if e == nil {
		return false
	}
	if !e.Equal(snapshot) {
		return false
	}
	delete(l.entries, id)
	return true
}
