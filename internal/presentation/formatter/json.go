package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-counter-recovery/internal/core/costing"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

type jsonRow struct {
	Day    string             `json:"day"`
	Values map[string]float64 `json:"values"`
}

type jsonTable struct {
	Labs    []string  `json:"labs"`
	Rows    []jsonRow `json:"rows"`
	Summary *jsonRow  `json:"summary,omitempty"`
}

type jsonReport struct {
	DataDir         string            `json:"dataDir"`
	Days            []string          `json:"days"`
	Labs            []string          `json:"labs"`
	Rates           pricing.Rates     `json:"rates"`
	Counts          jsonTable         `json:"counts"`
	UsageDays       jsonTable         `json:"usageDays"`
	StartupShutdown jsonTable         `json:"startupShutdown"`
	Costs           costing.Breakdown `json:"costs"`
}

func (f *JSONFormatter) Format(r *Report) error {
	costs := *r.Costs
	costs.Labs = make([]costing.LabCost, len(r.Costs.Labs))
	for i, c := range r.Costs.Labs {
		costs.Labs[i] = c.Rounded()
	}
	costs.GrandTotal = costing.Round(costs.GrandTotal)

	out := jsonReport{
		DataDir:         r.DataDir,
		Days:            r.Days,
		Labs:            r.Labs,
		Rates:           r.Rates,
		Counts:          toJSONTable(r.Counts),
		UsageDays:       toJSONTable(r.UsageDays),
		StartupShutdown: toJSONTable(r.StartupShutdown),
		Costs:           costs,
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

func toJSONTable(t *model.Table) jsonTable {
	labs := t.Labs()
	out := jsonTable{Labs: labs, Rows: make([]jsonRow, 0, len(t.Rows()))}
	for i, day := range t.Rows() {
		out.Rows = append(out.Rows, newJSONRow(day, labs, t.Row(i)))
	}
	if label, values, ok := t.Summary(); ok {
		row := newJSONRow(label, labs, values)
		out.Summary = &row
	}
	return out
}

func newJSONRow(label string, labs []string, values []float64) jsonRow {
	row := jsonRow{Day: label, Values: make(map[string]float64, len(labs))}
	for j, lab := range labs {
		row.Values[lab] = values[j]
	}
	return row
}
