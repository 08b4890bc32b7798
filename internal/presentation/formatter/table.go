package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-counter-recovery/internal/core/costing"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

// Notes printed under the QC and bleach breakdown
var qcNotes = []string{
	"Note these are not logged electronically and are assumed to be run once a week.",
	"The QC consists of 3 standards (Low, Normal, High) which are each run once a week.",
	"The cost of QC and bleach cleans are split evenly amongst all labs using the instrument.",
}

// TableFormatter prints the full human-readable report with boxed tables
type TableFormatter struct {
	w     io.Writer
	color bool
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w, color: util.ColorEnabled(w)}
}

func (f *TableFormatter) Format(r *Report) error {
	p := &printer{w: f.w}

	p.linef("This month the counter was used on the following days: %s", strings.Join(r.Days, ", "))
	p.linef("This month the counter was used by %d labs: %s", len(r.Labs), strings.Join(r.Labs, ", "))

	f.section(p, "Counts")
	p.line("Number of counts performed by each lab split by day.")
	p.line("")
	f.printTable(p, "Day", r.Counts, util.FormatCount)

	p.line("")
	p.linef("Cost of counts per lab at %s each:", util.FormatCurrency(r.Rates.CostPerCount))
	for _, c := range r.Costs.Labs {
		p.linef("  %s %s", util.PadString(c.Lab, labWidth(r.Labs), true), util.FormatCurrency(c.CountCost))
	}

	f.section(p, "Use")
	p.line("Summary of days the counter was used by each lab.")
	p.line("1 indicates samples were run that day. 0 indicates no use.")
	p.line("")
	f.printTable(p, "Day", r.UsageDays, util.FormatCount)

	f.section(p, "Startup / shutdown")
	p.linef("Breakdown of startup / shutdown costs per lab at %s per day.",
		util.FormatCurrency(r.Rates.StartupShutdown()))
	p.line("")
	f.printTable(p, "Day", r.StartupShutdown, util.FormatAmount)

	p.line("")
	p.linef("The number of days used aka the number of startups and shutdowns: %d", r.Costs.StartupShutdowns)
	p.line("")
	p.linef("Total QC counts performed: %d", r.Rates.QCCount)
	p.linef("Cost of QC counts per lab: %s", util.FormatCurrency(r.Costs.QCPerLab))
	p.line("")
	p.linef("Total bleach cleans performed: %d", r.Rates.BleachCleans)
	p.linef("Cost of bleach cleans per lab: %s", util.FormatCurrency(r.Costs.BleachPerLab))
	p.line("")
	for _, note := range qcNotes {
		p.line(util.FormatNote(note, f.color))
	}

	f.section(p, "Final costs")
	f.printFinal(p, r)

	return p.err
}

func (f *TableFormatter) section(p *printer, title string) {
	p.line("")
	p.line(util.FormatSectionSeparator(60, f.color))
	p.line(util.FormatSectionTitle(strings.ToUpper(title), f.color))
	p.line("")
}

// printTable prints a days × labs table, its summary row below a separator
func (f *TableFormatter) printTable(p *printer, corner string, t *model.Table, cell func(float64) string) {
	headers := append([]string{corner}, t.Labs()...)
	var rows [][]string
	for i, day := range t.Rows() {
		rows = append(rows, formatRow(day, t.Row(i), cell))
	}
	var footer []string
	if label, values, ok := t.Summary(); ok {
		footer = formatRow(label, values, cell)
	}
	printBox(p, headers, rows, footer)
}

func (f *TableFormatter) printFinal(p *printer, r *Report) {
	headers := []string{"Lab", "Samples", "Days", "Counts", "Startup/Shutdown", "QC", "Bleach", "Total"}
	var rows [][]string
	for _, c := range r.Costs.Labs {
		c = c.Rounded()
		rows = append(rows, []string{
			c.Lab,
			util.FormatCount(float64(c.Samples)),
			util.FormatCount(float64(c.DaysUsed)),
			util.FormatCurrency(c.CountCost),
			util.FormatCurrency(c.StartupShutdown),
			util.FormatCurrency(c.QC),
			util.FormatCurrency(c.Bleach),
			util.FormatCurrency(c.Total),
		})
	}
	footer := []string{model.RowTotal, "", "", "", "", "", "", util.FormatCurrency(costing.Round(r.Costs.GrandTotal))}
	printBox(p, headers, rows, footer)
}

func formatRow(label string, values []float64, cell func(float64) string) []string {
	row := make([]string, 0, len(values)+1)
	row = append(row, label)
	for _, v := range values {
		row = append(row, cell(v))
	}
	return row
}

func labWidth(labs []string) int {
	w := 0
	for _, lab := range labs {
		if n := util.GetDisplayWidth(lab); n > w {
			w = n
		}
	}
	return w
}

// printBox draws a bordered table; the first column is left-aligned and the
// rest right-aligned
func printBox(p *printer, headers []string, rows [][]string, footer []string) {
	widths := make([]int, len(headers))
	for _, row := range append(append([][]string{headers}, rows...), footer) {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	printBorder(p, widths, "top")
	printRow(p, headers, widths)
	printBorder(p, widths, "middle")
	for _, row := range rows {
		printRow(p, row, widths)
	}
	if footer != nil {
		printBorder(p, widths, "middle")
		printRow(p, footer, widths)
	}
	printBorder(p, widths, "bottom")
}

func printBorder(p *printer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	p.line(b.String())
}

func printRow(p *printer, values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], i == 0))
		b.WriteString(" │")
	}
	p.line(b.String())
}

// printer remembers the first write error so Format can return it
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...interface{}) {
	p.line(fmt.Sprintf(format, args...))
}
