package board

import (
	"fmt"

	"bugboard/internal/ledger"
	"bugboard/internal/model"
)

// MoveError is a validation rejection: the proposed transition violates a
// domain constraint. Non-fatal; the ledger is left untouched and Reason is
// surfaced to the user verbatim.
type MoveError struct {
	BugID  int
	From   model.Column
	To     model.Column
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("bug %d: %s → %s: %s", e.BugID, e.From, e.To, e.Reason)
}

// ValidateMove decides whether moving a bug between columns is legal under
// the ledger-aware field values. The single enforced constraint: a bug whose
// effective assignee is the unassigned sentinel may not leave Backlog except
// into Todo (Todo may hold unassigned bugs). Everything else is legal at
// this layer.
func (r Rules) ValidateMove(b model.Bug, led *ledger.Ledger, from, to model.Column) error {
	if from != model.ColumnBacklog || to == model.ColumnTodo {
		return nil
	}
	assignee := b.AssignedTo
	if led != nil {
		assignee = led.EffectiveAssignee(b)
	}
	if assignee == r.Unassigned || assignee == "" {
		return &MoveError{
			BugID:  b.ID,
			From:   from,
			To:     to,
			Reason: fmt.Sprintf("assign the bug before moving it to %s", to),
		}
	}
	return nil
}
