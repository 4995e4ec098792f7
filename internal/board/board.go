package board

import (
	"sort"

	"bugboard/internal/ledger"
	"bugboard/internal/model"
)

// BoardColumn is one rendered column: its identity plus the bugs currently
// displayed in it (ledger-aware).
type BoardColumn struct {
	Column model.Column
	Bugs   []model.Bug
}

// Build groups bugs into the five visible columns using DisplayColumn.
// Hidden bugs are dropped. Ordering inside a column is stable: effective
// priority first (P1 highest), then bug id.
func (r Rules) Build(bugs []model.Bug, led *ledger.Ledger) []BoardColumn {
	cols := make([]BoardColumn, 0, model.ColumnCount)
	for _, c := range model.Columns() {
		cols = append(cols, BoardColumn{Column: c})
	}
	for _, b := range bugs {
		col := r.DisplayColumn(b, led)
		if !col.Visible() {
			continue
		}
		cols[int(col)].Bugs = append(cols[int(col)].Bugs, b)
	}
	prio := func(b model.Bug) int {
		if led != nil {
			return priorityRank(led.EffectivePriority(b))
		}
		return priorityRank(b.Priority)
	}
	for i := range cols {
		bs := cols[i].Bugs
		sort.SliceStable(bs, func(a, b int) bool {
			pa, pb := prio(bs[a]), prio(bs[b])
			if pa != pb {
				return pa < pb
			}
			return bs[a].ID < bs[b].ID
		})
	}
	return cols
}

// priorityRank orders P1..P5; unknown or empty priorities sort last.
func priorityRank(p string) int {
	switch p {
	case "P1":
		return 1
	case "P2":
		return 2
	case "P3":
		return 3
	case "P4":
		return 4
	case "P5":
		return 5
	default:
		return 6
	}
}
