package board

import (
	"errors"
	"strings"
	"testing"

	"bugboard/internal/ledger"
	"bugboard/internal/model"
)

func TestValidateMoveUnassignedLeavingBacklog(t *testing.T) {
	t.Parallel()

	r := DefaultRules()
	led := ledger.New()
	b := model.Bug{ID: 1, Status: "NEW", AssignedTo: "nobody@localhost"}

	// Backlog → Todo is the one permitted exit for unassigned bugs.
	if err := r.ValidateMove(b, led, model.ColumnBacklog, model.ColumnTodo); err != nil {
		t.Fatalf("Backlog→Todo should be legal for unassigned bugs: %v", err)
	}

	for _, to := range []model.Column{model.ColumnInProgress, model.ColumnInTesting, model.ColumnDone} {
		err := r.ValidateMove(b, led, model.ColumnBacklog, to)
		if err == nil {
			t.Fatalf("Backlog→%v must be rejected for unassigned bugs", to)
		}
		var me *MoveError
		if !errors.As(err, &me) {
			t.Fatalf("expected *MoveError, got %T", err)
		}
		if me.BugID != b.ID || me.From != model.ColumnBacklog || me.To != to {
			t.Fatalf("MoveError fields wrong: %+v", me)
		}
		if !strings.Contains(me.Reason, "assign") {
			t.Fatalf("reason should tell the user to assign first: %q", me.Reason)
		}
	}
}

func TestValidateMoveUsesEffectiveAssignee(t *testing.T) {
	t.Parallel()

	r := DefaultRules()
	led := ledger.New()
	b := model.Bug{ID: 2, Status: "NEW", AssignedTo: "nobody@localhost"}

	// A staged (uncommitted) assignment is enough to unlock the move.
	led.StageAssignee(b.ID, b.AssignedTo, "dev@example.org")
	if err := r.ValidateMove(b, led, model.ColumnBacklog, model.ColumnInProgress); err != nil {
		t.Fatalf("staged assignee should satisfy the validator: %v", err)
	}

	// And a staged un-assignment re-locks it, even though the tracker still
	// has a real assignee.
	b2 := model.Bug{ID: 3, Status: "NEW", AssignedTo: "dev@example.org"}
	led.StageAssignee(b2.ID, b2.AssignedTo, r.Unassigned)
	if err := r.ValidateMove(b2, led, model.ColumnBacklog, model.ColumnInProgress); err == nil {
		t.Fatalf("staged unassignment should be rejected")
	}
}

func TestValidateMoveOtherTransitionsLegal(t *testing.T) {
	t.Parallel()

	r := DefaultRules()
	b := model.Bug{ID: 4, Status: "ASSIGNED", AssignedTo: "nobody@localhost"}

	// The constraint only guards exits from Backlog.
	if err := r.ValidateMove(b, nil, model.ColumnInProgress, model.ColumnDone); err != nil {
		t.Fatalf("non-Backlog origin should be legal: %v", err)
	}
	if err := r.ValidateMove(b, nil, model.ColumnTodo, model.ColumnInProgress); err != nil {
		t.Fatalf("Todo origin should be legal: %v", err)
	}
}
