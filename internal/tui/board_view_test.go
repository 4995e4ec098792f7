package tui

import (
	"strings"
	"testing"

	"bugboard/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRenderBoardHeadersCarryCounts(t *testing.T) {
	m := newTestModel(t, testBoardBugs())

	out := m.renderBoard(120, 30)
	if !strings.Contains(out, "Backlog (3)") {
		t.Fatalf("expected Backlog count in headers; got:\n%s", out)
	}
	if !strings.Contains(out, "Todo (0)") {
		t.Fatalf("expected empty Todo header; got:\n%s", out)
	}
	if !strings.Contains(out, "In Progress (1)") {
		t.Fatalf("expected In Progress count; got:\n%s", out)
	}
	if !strings.Contains(out, "(empty)") {
		t.Fatalf("empty columns should render a placeholder")
	}
}

func TestRenderBoardMarksStagedCards(t *testing.T) {
	m := newTestModel(t, testBoardBugs())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes('p'))
	out := m.renderBoard(120, 30)
	if !strings.Contains(out, glyphStaged()) {
		t.Fatalf("staged card should carry the staged marker; got:\n%s", out)
	}
}

func TestDetailShowsStagedTransition(t *testing.T) {
	m := newTestModel(t, testBoardBugs())
	m.led.StagePriority(1, "P3", "P1")

	b, ok := m.bugByID(1)
	if !ok {
		t.Fatalf("bug 1 missing")
	}
	out := m.renderDetail(b, 60, 30)
	if !strings.Contains(out, "P3 "+glyphArrow()) {
		t.Fatalf("staged field should render the prior value and arrow; got:\n%s", out)
	}
}

func TestRenderHooks(t *testing.T) {
	m := newTestModel(t, testBoardBugs())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	if got := m.selectedIndexForColumn(int(model.ColumnBacklog)); got != 0 {
		t.Fatalf("selected index = %d", got)
	}
	if got := m.selectedIndexForColumn(int(model.ColumnTodo)); got != -1 {
		t.Fatalf("unselected column should report -1; got %d", got)
	}

	m = press(t, m, runes(' '), tea.KeyMsg{Type: tea.KeyRight})
	if !m.isGrabbingForColumn(int(model.ColumnBacklog)) {
		t.Fatalf("origin column should report grabbing")
	}
	if !m.isDropTargetForColumn(int(model.ColumnTodo)) {
		t.Fatalf("target column should report drop target")
	}
	if m.isDropTargetForColumn(int(model.ColumnBacklog)) {
		t.Fatalf("origin is not the target anymore")
	}
}

func TestClampSelectionFollowsBugID(t *testing.T) {
	m := newTestModel(t, testBoardBugs())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runes('j')) // bug 2

	// Bug 2 jumps to the front of Backlog once its priority is staged to P1.
	m.led.StagePriority(2, "", "P1")
	m.rebuild()

	if m.sel.BugID != 2 || m.sel.Row != 0 {
		t.Fatalf("selection should track the bug id across re-sorts; sel=%+v", m.sel)
	}
}

func TestClampSelectionDropsToIdleWhenBoardEmpties(t *testing.T) {
	m := newTestModel(t, testBoardBugs())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m.setBugs(nil)
	if m.state != stateIdle {
		t.Fatalf("empty board should drop selection; state=%v", m.state)
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	lines := wrapText("fix the frobnicator timeout", 12, "* ", "  ")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "* ") {
		t.Fatalf("first prefix missing: %q", lines[0])
	}
	for _, ln := range lines[1:] {
		if !strings.HasPrefix(ln, "  ") {
			t.Fatalf("continuation prefix missing: %q", ln)
		}
	}

	// A single word wider than the column is hard-cut, not dropped.
	lines = wrapText("superduperlongtoken", 8, "", "")
	joined := strings.Join(lines, "")
	if !strings.Contains(joined, "superdup") {
		t.Fatalf("long token should be cut across lines: %v", lines)
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	if got := truncateText("short", 10); got != "short" {
		t.Fatalf("no-op truncate: %q", got)
	}
	got := truncateText("a much longer line", 8)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis: %q", got)
	}
}
