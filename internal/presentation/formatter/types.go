package formatter

import (
	"io"

	"github.com/penwyp/go-counter-recovery/internal/core/costing"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
)

// Report is everything computed for one month
type Report struct {
	DataDir         string
	Days            []string
	Labs            []string
	Rates           pricing.Rates
	Counts          *model.Table
	UsageDays       *model.Table
	StartupShutdown *model.Table
	Costs           *costing.Breakdown
}

// Formatter renders a report
type Formatter interface {
	Format(r *Report) error
}

// New returns the formatter for the given output format, defaulting to table
func New(output string, w io.Writer) Formatter {
	switch output {
	case model.OutputJSON:
		return NewJSONFormatter(w)
	case model.OutputCSV:
		return NewCSVFormatter(w)
	default:
		return NewTableFormatter(w)
	}
}
