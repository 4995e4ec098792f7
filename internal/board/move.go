package board

import (
	"bugboard/internal/ledger"
	"bugboard/internal/model"
)

// Mover stages column moves together with their cross-field propagation:
//
//   - Backlog → Todo adds the sprint marker to the whiteboard; Todo →
//     Backlog removes it.
//   - moving into In Testing auto-stages the QA flag to approved.
//   - moving back out of In Testing reverts an auto-staged QA flag, but only
//     when the column diff itself reverted to the origin; an explicit
//     re-move by the user takes precedence.
//
// The rule table lives here, not in the ledger: the ledger stays a dumb,
// fully testable store.
type Mover struct {
	Rules  Rules
	Ledger *ledger.Ledger

	// autoQA tracks which bugs had their QA flag staged by propagation
	// rather than by the user.
	autoQA map[int]bool
}

func NewMover(rules Rules, led *ledger.Ledger) *Mover {
	return &Mover{Rules: rules, Ledger: led, autoQA: map[int]bool{}}
}

// StageMove records a column transition in the ledger, applying the
// propagation rules. Callers must have validated the move first; StageMove
// itself never rejects.
func (m *Mover) StageMove(b model.Bug, from, to model.Column) {
	if from == to {
		return
	}
	origin := m.Rules.Resolve(b)
	m.Ledger.StageColumn(b.ID, origin, to)

	// Sprint membership follows Backlog/Todo moves.
	if from == model.ColumnBacklog && to == model.ColumnTodo {
		eff := m.Ledger.EffectiveWhiteboard(b)
		m.Ledger.StageWhiteboard(b.ID, b.Whiteboard, m.Rules.AddSprintMarker(eff))
	}
	if from == model.ColumnTodo && to == model.ColumnBacklog {
		eff := m.Ledger.EffectiveWhiteboard(b)
		m.Ledger.StageWhiteboard(b.ID, b.Whiteboard, m.Rules.RemoveSprintMarker(eff))
	}

	if to == model.ColumnInTesting {
		if m.Ledger.EffectiveQAFlag(b, m.Rules.QAFlagName) != QAApproved {
			m.Ledger.StageQAFlag(b.ID, b.Flag(m.Rules.QAFlagName), QAApproved)
			m.autoQA[b.ID] = true
		}
		return
	}

	if from == model.ColumnInTesting && m.autoQA[b.ID] {
		// Only auto-revert when the bug ended up back in its original
		// column (the column slot vanished from the ledger).
		if _, overridden := m.Ledger.ColumnOverride(b.ID); !overridden {
			base := b.Flag(m.Rules.QAFlagName)
			m.Ledger.StageQAFlag(b.ID, base, base)
			delete(m.autoQA, b.ID)
		}
	}
}

// StageQAFlag stages an explicit, user-initiated QA flag change; it clears
// the auto-staged mark so a later move out of In Testing won't undo it.
func (m *Mover) StageQAFlag(b model.Bug, to string) {
	m.Ledger.StageQAFlag(b.ID, b.Flag(m.Rules.QAFlagName), to)
	delete(m.autoQA, b.ID)
}

// Forget drops per-bug propagation bookkeeping; call when a bug's ledger
// entry is cleared (committed or discarded).
func (m *Mover) Forget(id int) { delete(m.autoQA, id) }

// ForgetAll resets propagation bookkeeping; call on ClearAll.
func (m *Mover) ForgetAll() { m.autoQA = map[int]bool{} }
