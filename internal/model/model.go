package model

import "time"

// Bug is a work item owned by the remote tracker. The board never mutates a
// Bug; pending edits live in the ledger until they are committed remotely.
type Bug struct {
	ID         int    `json:"id"`
	Summary    string `json:"summary"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`

	// Whiteboard is a free-text tag field; sprint membership is encoded as a
	// marker substring (e.g. "[sprint]").
	Whiteboard string `json:"whiteboard,omitempty"`

	// Flags maps flag name to its state ("+", "-", "?"). QA verification is
	// one of these flags.
	Flags map[string]string `json:"flags,omitempty"`

	AssignedTo string `json:"assigned_to"`
	Priority   string `json:"priority,omitempty"`
	Severity   string `json:"severity,omitempty"`

	// Points is the story-point estimate; PointsUnknown when not estimated.
	Points int `json:"points"`

	Product   string `json:"product,omitempty"`
	Component string `json:"component,omitempty"`

	// Description is comment 0, used for the detail pane only.
	Description string `json:"description,omitempty"`

	LastChangeTime time.Time `json:"last_change_time"`
}

// PointsUnknown marks an unestimated bug.
const PointsUnknown = -1

// Flag returns the state of the named flag, or "" when unset.
func (b Bug) Flag(name string) string {
	if b.Flags == nil {
		return ""
	}
	return b.Flags[name]
}
