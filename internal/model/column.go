package model

// Column is one of the fixed, ordered board columns. Column membership is
// derived from a bug's raw fields (plus any staged column override), never
// stored on the bug itself.
type Column int

const (
	// ColumnHidden excludes a bug from every column (e.g. closed long ago,
	// or closed with a resolution other than FIXED).
	ColumnHidden Column = iota - 1

	ColumnBacklog
	ColumnTodo
	ColumnInProgress
	ColumnInTesting
	ColumnDone
)

// ColumnCount is the number of visible columns.
const ColumnCount = int(ColumnDone) + 1

// Columns returns the visible columns in board order.
func Columns() []Column {
	return []Column{ColumnBacklog, ColumnTodo, ColumnInProgress, ColumnInTesting, ColumnDone}
}

func (c Column) Visible() bool {
	return c >= ColumnBacklog && c <= ColumnDone
}

func (c Column) String() string {
	switch c {
	case ColumnBacklog:
		return "Backlog"
	case ColumnTodo:
		return "Todo"
	case ColumnInProgress:
		return "In Progress"
	case ColumnInTesting:
		return "In Testing"
	case ColumnDone:
		return "Done"
	default:
		return "(hidden)"
	}
}

// ParseColumn maps a column label back to a Column. Unknown labels degrade to
// Backlog so a malformed record can never make the board unusable.
func ParseColumn(s string) Column {
	for _, c := range Columns() {
		if c.String() == s {
			return c
		}
	}
	return ColumnBacklog
}
