package formatter

import (
	"io"

	"github.com/gocarina/gocsv"
)

// CSVFormatter writes one row per lab with the final cost breakdown
type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

type csvRow struct {
	Lab             string  `csv:"Lab"`
	Samples         int     `csv:"Samples"`
	DaysUsed        int     `csv:"Days Used"`
	CountCost       float64 `csv:"Count Cost"`
	StartupShutdown float64 `csv:"Startup/Shutdown Cost"`
	QC              float64 `csv:"QC Cost"`
	Bleach          float64 `csv:"Bleach Cost"`
	Total           float64 `csv:"Total Cost"`
}

func (f *CSVFormatter) Format(r *Report) error {
	rows := make([]*csvRow, 0, len(r.Costs.Labs))
	for _, c := range r.Costs.Labs {
		c = c.Rounded()
		rows = append(rows, &csvRow{
			Lab:             c.Lab,
			Samples:         c.Samples,
			DaysUsed:        c.DaysUsed,
			CountCost:       c.CountCost,
			StartupShutdown: c.StartupShutdown,
			QC:              c.QC,
			Bleach:          c.Bleach,
			Total:           c.Total,
		})
	}
	return gocsv.Marshal(rows, f.w)
}
