package reconcile

import (
	"context"
	"errors"
	"testing"

	"bugboard/internal/board"
	"bugboard/internal/model"
	"bugboard/internal/remote"

	"github.com/google/go-cmp/cmp"
)

type fakeUpdater struct {
	updates map[int]remote.BugUpdate
	fail    map[int]error
}

func (f *fakeUpdater) UpdateBug(ctx context.Context, id int, up remote.BugUpdate) error {
	if err := f.fail[id]; err != nil {
		return err
	}
	if f.updates == nil {
		f.updates = map[int]remote.BugUpdate{}
	}
	f.updates[id] = up
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestApplyPartitionsOutcomes(t *testing.T) {
	t.Parallel()

	boom := errors.New("midair collision")
	f := &fakeUpdater{fail: map[int]error{2: boom}}
	a := Applier{Rules: board.DefaultRules(), Updater: f}

	snapshot := map[int]model.StagedChange{
		1: {Assignee: &model.Diff[string]{From: "a@x", To: "b@x"}},
		2: {Priority: &model.Diff[string]{From: "P3", To: "P1"}},
		3: {Points: &model.Diff[int]{From: model.PointsUnknown, To: 5}},
	}

	res := a.Apply(context.Background(), snapshot)

	if res.SuccessCount() != 2 || res.FailCount() != 1 {
		t.Fatalf("got %d ok / %d failed", res.SuccessCount(), res.FailCount())
	}
	if !errors.Is(res.Failed[2], boom) {
		t.Fatalf("failure for bug 2 should carry the updater error; got %v", res.Failed[2])
	}
	// Succeeded carries the submitted snapshot, for ClearIfUnchanged.
	if diff := cmp.Diff(snapshot[1], res.Succeeded[1]); diff != "" {
		t.Fatalf("Succeeded[1] (-want +got):\n%s", diff)
	}
	// One failure does not stop the rest of the batch.
	if _, ok := res.Succeeded[3]; !ok {
		t.Fatalf("bug 3 should have been submitted despite bug 2 failing")
	}
}

func TestSummaryOutcomeClasses(t *testing.T) {
	t.Parallel()

	change := model.StagedChange{Points: &model.Diff[int]{From: 1, To: 2}}
	errX := errors.New("x")

	cases := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "all ok",
			res:  Result{Succeeded: map[int]model.StagedChange{1: change, 2: change}, Failed: map[int]error{}},
			want: "Applied 2 change(s)",
		},
		{
			name: "partial",
			res:  Result{Succeeded: map[int]model.StagedChange{1: change}, Failed: map[int]error{2: errX}},
			want: "Applied 1 change(s), 1 failed (still staged)",
		},
		{
			name: "all failed",
			res:  Result{Succeeded: map[int]model.StagedChange{}, Failed: map[int]error{1: errX, 2: errX}},
			want: "Apply failed: all 2 change(s) still staged",
		},
	}
	for _, tc := range cases {
		if got := tc.res.Summary(); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTranslateMapsSlots(t *testing.T) {
	t.Parallel()

	a := Applier{Rules: board.DefaultRules()}
	c := model.StagedChange{
		Column:     &model.Diff[model.Column]{From: model.ColumnInProgress, To: model.ColumnInTesting},
		Assignee:   &model.Diff[string]{From: "a@x", To: "b@x"},
		Points:     &model.Diff[int]{From: model.PointsUnknown, To: 3},
		Priority:   &model.Diff[string]{From: "P3", To: "P2"},
		Severity:   &model.Diff[string]{From: "normal", To: "major"},
		QAFlag:     &model.Diff[string]{From: "", To: "+"},
		Whiteboard: &model.Diff[string]{From: "", To: "[sprint]"},
	}

	got := a.translate(c)
	want := remote.BugUpdate{
		Status:     "RESOLVED",
		Resolution: strPtr("FIXED"),
		AssignedTo: "b@x",
		Priority:   "P2",
		Severity:   "major",
		Points:     intPtr(3),
		Whiteboard: strPtr("[sprint]"),
		Flags:      []remote.FlagChange{{Name: "qe-verify", Status: "+"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translate (-want +got):\n%s", diff)
	}
}

func TestStatusUpdateForColumnTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to   model.Column
		status     string
		resolution *string
	}{
		// Backlog↔Todo is whiteboard-only.
		{model.ColumnBacklog, model.ColumnTodo, "", nil},
		{model.ColumnTodo, model.ColumnBacklog, "", nil},
		// Leaving a non-open column for an open one reopens the bug and
		// clears its resolution.
		{model.ColumnDone, model.ColumnBacklog, "REOPENED", strPtr("")},
		{model.ColumnInTesting, model.ColumnTodo, "REOPENED", strPtr("")},
		{model.ColumnBacklog, model.ColumnInProgress, "ASSIGNED", nil},
		{model.ColumnInProgress, model.ColumnInTesting, "RESOLVED", strPtr("FIXED")},
		{model.ColumnInProgress, model.ColumnDone, "RESOLVED", strPtr("FIXED")},
	}

	for _, tc := range cases {
		status, resolution := statusUpdateFor(tc.from, tc.to)
		if status != tc.status {
			t.Fatalf("%v→%v: status %q, want %q", tc.from, tc.to, status, tc.status)
		}
		if diff := cmp.Diff(tc.resolution, resolution); diff != "" {
			t.Fatalf("%v→%v: resolution (-want +got):\n%s", tc.from, tc.to, diff)
		}
	}
}
