package store

import (
	"context"
	"testing"
	"time"

	"bugboard/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()

	bugs := []model.Bug{
		{
			ID:         1,
			Summary:    "crash on resume",
			Status:     "ASSIGNED",
			AssignedTo: "dev@example.org",
			Priority:   "P2",
			Points:     3,
			Flags:      map[string]string{"qe-verify": "?"},
		},
		{ID: 2, Summary: "slow startup", Status: "NEW", Points: model.PointsUnknown},
	}
	before := time.Now().Add(-time.Second)
	if err := c.SaveBugs(ctx, bugs); err != nil {
		t.Fatalf("SaveBugs: %v", err)
	}

	got, fetchedAt, err := c.LoadBugs(ctx)
	if err != nil {
		t.Fatalf("LoadBugs: %v", err)
	}
	if diff := cmp.Diff(bugs, got); diff != "" {
		t.Fatalf("bugs (-want +got):\n%s", diff)
	}
	if fetchedAt.Before(before) {
		t.Fatalf("fetchedAt %v should be recent", fetchedAt)
	}
}

func TestCacheSaveReplacesSnapshot(t *testing.T) {
	t.Parallel()

	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()

	if err := c.SaveBugs(ctx, []model.Bug{{ID: 1, Status: "NEW"}, {ID: 2, Status: "NEW"}}); err != nil {
		t.Fatalf("first SaveBugs: %v", err)
	}
	if err := c.SaveBugs(ctx, []model.Bug{{ID: 3, Status: "NEW"}}); err != nil {
		t.Fatalf("second SaveBugs: %v", err)
	}

	got, _, err := c.LoadBugs(ctx)
	if err != nil {
		t.Fatalf("LoadBugs: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("snapshot should be replaced, got %+v", got)
	}
}

func TestCacheEmptyLoad(t *testing.T) {
	t.Parallel()

	c := Cache{Dir: t.TempDir()}
	got, fetchedAt, err := c.LoadBugs(context.Background())
	if err != nil {
		t.Fatalf("LoadBugs on empty cache: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no bugs, got %d", len(got))
	}
	if !fetchedAt.IsZero() {
		t.Fatalf("expected zero fetchedAt, got %v", fetchedAt)
	}
}
