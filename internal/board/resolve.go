// Package board derives column placement from a bug's raw tracker fields and
// enforces the domain rules for moving bugs between columns.
package board

import (
	"strings"
	"time"

	"bugboard/internal/ledger"
	"bugboard/internal/model"
)

// Status and resolution vocabulary of the tracker.
var (
	openStatuses = map[string]bool{
		"NEW":         true,
		"UNCONFIRMED": true,
		"REOPENED":    true,
	}
	activeStatuses = map[string]bool{
		"ASSIGNED":    true,
		"IN_PROGRESS": true,
	}
	closedStatuses = map[string]bool{
		"RESOLVED": true,
		"VERIFIED": true,
		"CLOSED":   true,
	}
)

const (
	StatusResolved  = "RESOLVED"
	ResolutionFixed = "FIXED"

	// QAApproved is the flag state that puts a resolved bug into In Testing.
	QAApproved = "+"
)

// Rules carries the tunable inputs of column resolution and move validation.
type Rules struct {
	// SprintMarker is the whiteboard substring that distinguishes Todo from
	// Backlog for open bugs.
	SprintMarker string

	// QAFlagName is the tracker flag encoding QA verification state.
	QAFlagName string

	// Unassigned is the tracker's sentinel "nobody" assignee.
	Unassigned string

	// DoneWindow bounds how long a fixed bug remains visible in Done.
	DoneWindow time.Duration

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func DefaultRules() Rules {
	return Rules{
		SprintMarker: "[sprint]",
		QAFlagName:   "qe-verify",
		Unassigned:   "nobody@localhost",
		DoneWindow:   14 * 24 * time.Hour,
	}
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve maps a bug's raw fields to its column. Pure and total: every bug
// maps to exactly one column (possibly ColumnHidden), and an unrecognized
// status degrades to Backlog rather than failing. Safe to call on every
// render.
func (r Rules) Resolve(b model.Bug) model.Column {
	status := strings.ToUpper(strings.TrimSpace(b.Status))

	switch {
	case openStatuses[status]:
		if r.SprintMarker != "" && strings.Contains(b.Whiteboard, r.SprintMarker) {
			return model.ColumnTodo
		}
		return model.ColumnBacklog

	case activeStatuses[status]:
		return model.ColumnInProgress

	case status == StatusResolved && b.Flag(r.QAFlagName) == QAApproved:
		return model.ColumnInTesting

	case closedStatuses[status]:
		if strings.EqualFold(strings.TrimSpace(b.Resolution), ResolutionFixed) &&
			r.now().Sub(b.LastChangeTime) <= r.DoneWindow {
			return model.ColumnDone
		}
		// Deliberate visibility filter: stale or non-FIXED closed bugs are
		// not shown in any column.
		return model.ColumnHidden

	default:
		return model.ColumnBacklog
	}
}

// DisplayColumn is the ledger-aware column: a staged column override wins
// over the resolved one.
func (r Rules) DisplayColumn(b model.Bug, led *ledger.Ledger) model.Column {
	if led != nil {
		if col, ok := led.ColumnOverride(b.ID); ok {
			return col
		}
	}
	return r.Resolve(b)
}

// AddSprintMarker appends the marker to a whiteboard value if absent.
func (r Rules) AddSprintMarker(whiteboard string) string {
	if r.SprintMarker == "" || strings.Contains(whiteboard, r.SprintMarker) {
		return whiteboard
	}
	if strings.TrimSpace(whiteboard) == "" {
		return r.SprintMarker
	}
	return strings.TrimRight(whiteboard, " ") + " " + r.SprintMarker
}

// RemoveSprintMarker strips the marker (and surrounding padding) from a
// whiteboard value.
func (r Rules) RemoveSprintMarker(whiteboard string) string {
	if r.SprintMarker == "" {
		return whiteboard
	}
	out := strings.ReplaceAll(whiteboard, " "+r.SprintMarker, "")
	out = strings.ReplaceAll(out, r.SprintMarker, "")
	return strings.TrimSpace(out)
}
