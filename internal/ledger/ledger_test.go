package ledger

import (
	"testing"

	"bugboard/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestStagePreservesOriginalFrom(t *testing.T) {
	t.Parallel()

	l := New()
	l.StageAssignee(1, "alice@example.org", "bob@example.org")
	l.StageAssignee(1, "alice@example.org", "carol@example.org")

	e, ok := l.Entry(1)
	if !ok || e.Assignee == nil {
		t.Fatalf("expected a staged assignee entry; got ok=%v entry=%+v", ok, e)
	}
	if e.Assignee.From != "alice@example.org" {
		t.Fatalf("From must survive repeated edits; got %q", e.Assignee.From)
	}
	if e.Assignee.To != "carol@example.org" {
		t.Fatalf("To must track the latest edit; got %q", e.Assignee.To)
	}
}

func TestStageBackToBaselineIsNoOp(t *testing.T) {
	t.Parallel()

	l := New()
	l.StageColumn(7, model.ColumnBacklog, model.ColumnInProgress)
	if l.Size() != 1 {
		t.Fatalf("expected 1 staged bug; got %d", l.Size())
	}

	// Moving back to the original column removes the diff entirely.
	l.StageColumn(7, model.ColumnBacklog, model.ColumnBacklog)
	if l.Size() != 0 {
		t.Fatalf("revert to baseline must delete the entry; size=%d", l.Size())
	}
	if _, ok := l.Entry(7); ok {
		t.Fatalf("entry 7 should be gone")
	}
}

func TestEmptyEntryNeverExists(t *testing.T) {
	t.Parallel()

	l := New()
	l.StagePoints(3, 5, 8)
	l.StagePriority(3, "P3", "P1")

	// Revert one slot at a time; the entry must vanish with the last one.
	l.StagePoints(3, 5, 5)
	if e, ok := l.Entry(3); !ok || e.Points != nil {
		t.Fatalf("points slot should be gone, entry kept: ok=%v %+v", ok, e)
	}
	l.StagePriority(3, "P3", "P3")
	if l.Size() != 0 {
		t.Fatalf("reverting the last slot must delete the entry; size=%d", l.Size())
	}
}

func TestEffectiveValuesPreferStaged(t *testing.T) {
	t.Parallel()

	b := model.Bug{
		ID:         11,
		AssignedTo: "nobody@localhost",
		Priority:   "P4",
		Severity:   "normal",
		Points:     model.PointsUnknown,
		Whiteboard: "",
		Flags:      map[string]string{"qe-verify": ""},
	}

	l := New()
	if got := l.EffectiveAssignee(b); got != "nobody@localhost" {
		t.Fatalf("without staging, effective = base; got %q", got)
	}

	l.StageAssignee(b.ID, b.AssignedTo, "dev@example.org")
	l.StagePoints(b.ID, b.Points, 3)
	l.StageQAFlag(b.ID, "", "+")

	if got := l.EffectiveAssignee(b); got != "dev@example.org" {
		t.Fatalf("effective assignee: got %q", got)
	}
	if got := l.EffectivePoints(b); got != 3 {
		t.Fatalf("effective points: got %d", got)
	}
	if got := l.EffectiveQAFlag(b, "qe-verify"); got != "+" {
		t.Fatalf("effective qa flag: got %q", got)
	}
	if got := l.EffectivePriority(b); got != "P4" {
		t.Fatalf("unstaged field must pass through; got %q", got)
	}
}

func TestColumnOverride(t *testing.T) {
	t.Parallel()

	l := New()
	if _, ok := l.ColumnOverride(5); ok {
		t.Fatalf("no override expected on a clean ledger")
	}
	l.StageColumn(5, model.ColumnTodo, model.ColumnInProgress)
	col, ok := l.ColumnOverride(5)
	if !ok || col != model.ColumnInProgress {
		t.Fatalf("override = %v ok=%v", col, ok)
	}
}

func TestSnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	t.Parallel()

	l := New()
	l.StageAssignee(1, "a@x", "b@x")
	snap := l.Snapshot()

	l.StageAssignee(1, "a@x", "c@x")

	want := model.StagedChange{Assignee: &model.Diff[string]{From: "a@x", To: "b@x"}}
	if diff := cmp.Diff(want, snap[1]); diff != "" {
		t.Fatalf("snapshot mutated by later edit (-want +got):\n%s", diff)
	}
}

func TestClearIfUnchanged(t *testing.T) {
	t.Parallel()

	l := New()
	l.StageAssignee(1, "a@x", "b@x")
	snap := l.Snapshot()

	// Edit staged while the batch was in flight: the entry must survive.
	l.StagePoints(1, model.PointsUnknown, 2)
	if l.ClearIfUnchanged(1, snap[1]) {
		t.Fatalf("entry edited mid-flight must not be cleared")
	}
	if l.Size() != 1 {
		t.Fatalf("entry lost; size=%d", l.Size())
	}

	// Undo the mid-flight edit; now the entry matches the snapshot again.
	l.StagePoints(1, model.PointsUnknown, model.PointsUnknown)
	if !l.ClearIfUnchanged(1, snap[1]) {
		t.Fatalf("unchanged entry should clear")
	}
	if l.Size() != 0 {
		t.Fatalf("entry should be gone; size=%d", l.Size())
	}

	if l.ClearIfUnchanged(1, snap[1]) {
		t.Fatalf("clearing a missing entry must report false")
	}
}

func TestIDsSorted(t *testing.T) {
	t.Parallel()

	l := New()
	l.StagePoints(30, 1, 2)
	l.StagePoints(4, 1, 2)
	l.StagePoints(17, 1, 2)

	want := []int{4, 17, 30}
	if diff := cmp.Diff(want, l.IDs()); diff != "" {
		t.Fatalf("IDs (-want +got):\n%s", diff)
	}
}
