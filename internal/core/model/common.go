package model

// Summary row labels
const (
	RowTotal         = "Total"
	RowTotalDaysUsed = "Total days used"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
)

// SampleExt is the extension the counter gives every per-sample export.
// Matching is case-sensitive.
const SampleExt = ".CSV"

// FileEvent is a change to a sample file under a watched month directory.
type FileEvent struct {
	Path      string
	Operation string
}
