package model

// Field names one mutable slot of a staged change.
type Field string

const (
	FieldColumn     Field = "column"
	FieldAssignee   Field = "assignee"
	FieldPoints     Field = "points"
	FieldPriority   Field = "priority"
	FieldSeverity   Field = "severity"
	FieldQAFlag     Field = "qaFlag"
	FieldWhiteboard Field = "whiteboard"
)

// Diff is one staged edit to one field: the original value and the pending
// replacement. From is fixed at the first staging of the field and survives
// intermediate edits; only To moves.
type Diff[T comparable] struct {
	From T `json:"from"`
	To   T `json:"to"`
}

func diffEqual[T comparable](a, b *Diff[T]) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StagedChange is the bag of pending per-field edits for one bug. A
// StagedChange with zero populated slots must never be kept in the ledger,
// so "ledger is empty" and "no pending changes" stay equivalent without a
// separate dirty flag.
type StagedChange struct {
	Column     *Diff[Column] `json:"column,omitempty"`
	Assignee   *Diff[string] `json:"assignee,omitempty"`
	Points     *Diff[int]    `json:"points,omitempty"`
	Priority   *Diff[string] `json:"priority,omitempty"`
	Severity   *Diff[string] `json:"severity,omitempty"`
	QAFlag     *Diff[string] `json:"qaFlag,omitempty"`
	Whiteboard *Diff[string] `json:"whiteboard,omitempty"`
}

func (c StagedChange) Empty() bool {
	return c.Column == nil &&
		c.Assignee == nil &&
		c.Points == nil &&
		c.Priority == nil &&
		c.Severity == nil &&
		c.QAFlag == nil &&
		c.Whiteboard == nil
}

// Fields lists the populated slots in a stable order.
func (c StagedChange) Fields() []Field {
	out := make([]Field, 0, 7)
	if c.Column != nil {
		out = append(out, FieldColumn)
	}
	if c.Assignee != nil {
		out = append(out, FieldAssignee)
	}
	if c.Points != nil {
		out = append(out, FieldPoints)
	}
	if c.Priority != nil {
		out = append(out, FieldPriority)
	}
	if c.Severity != nil {
		out = append(out, FieldSeverity)
	}
	if c.QAFlag != nil {
		out = append(out, FieldQAFlag)
	}
	if c.Whiteboard != nil {
		out = append(out, FieldWhiteboard)
	}
	return out
}

// Equal reports whether two staged changes carry the same diffs. Used by the
// reconciler to detect edits made while a submission was in flight.
func (c StagedChange) Equal(o StagedChange) bool {
	return diffEqual(c.Column, o.Column) &&
		diffEqual(c.Assignee, o.Assignee) &&
		diffEqual(c.Points, o.Points) &&
		diffEqual(c.Priority, o.Priority) &&
		diffEqual(c.Severity, o.Severity) &&
		diffEqual(c.QAFlag, o.QAFlag) &&
		diffEqual(c.Whiteboard, o.Whiteboard)
}

// Clone returns a deep copy (the diffs themselves are value types).
func (c StagedChange) Clone() StagedChange {
	out := StagedChange{}
	if c.Column != nil {
		d := *c.Column
		out.Column = &d
	}
	if c.Assignee != nil {
		d := *c.Assignee
		out.Assignee = &d
	}
	if c.Points != nil {
		d := *c.Points
		out.Points = &d
	}
	if c.Priority != nil {
		d := *c.Priority
		out.Priority = &d
	}
	if c.Severity != nil {
		d := *c.Severity
		out.Severity = &d
	}
	if c.QAFlag != nil {
		d := *c.QAFlag
		out.QAFlag = &d
	}
	if c.Whiteboard != nil {
		d := *c.Whiteboard
		out.Whiteboard = &d
	}
	return out
}
