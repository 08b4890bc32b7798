package aggregator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/data/parser"
	"github.com/penwyp/go-counter-recovery/internal/data/scanner"
	"github.com/penwyp/go-counter-recovery/internal/util"
)

// ErrUnknownLab is returned when a sample names a lab missing from the lab set
var ErrUnknownLab = errors.New("lab not in the discovered lab set")

// LabSet is the distinct set of labs that used the counter in a month
type LabSet map[string]struct{}

// NewLabSet builds a set from the given labs
func NewLabSet(labs ...string) LabSet {
	s := make(LabSet, len(labs))
	for _, lab := range labs {
		s[lab] = struct{}{}
	}
	return s
}

// Contains reports whether lab is in the set
func (s LabSet) Contains(lab string) bool {
	_, ok := s[lab]
	return ok
}

// Sorted returns the labs in sorted order; this is the column order of
// every table in a report.
func (s LabSet) Sorted() []string {
	labs := make([]string, 0, len(s))
	for lab := range s {
		labs = append(labs, lab)
	}
	sort.Strings(labs)
	return labs
}

// LabExtractor returns the lab that produced a sample file
type LabExtractor interface {
	ExtractLab(path string) (string, error)
}

// Aggregator counts samples per day and lab for one month directory
type Aggregator struct {
	scanner   *scanner.FileScanner
	extractor LabExtractor
}

// NewAggregator creates an aggregator over the month rooted at baseDir
func NewAggregator(baseDir string, extractor LabExtractor) *Aggregator {
	if extractor == nil {
		extractor = parser.NewParser()
	}
	return &Aggregator{
		scanner:   scanner.NewFileScanner(baseDir),
		extractor: extractor,
	}
}

// Days lists the day directories of the month
func (a *Aggregator) Days() ([]string, error) {
	return a.scanner.Days()
}

// FindLabs reads every sample in the month and returns the labs seen
func (a *Aggregator) FindLabs() (LabSet, error) {
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, err
	}

	labs := make(LabSet)
	for _, file := range files {
		lab, err := a.extractor.ExtractLab(file)
		if err != nil {
			return nil, err
		}
		labs[lab] = struct{}{}
	}

	util.LogInfo("Discovered labs", util.F("samples", len(files)), util.F("labs", len(labs)))
	return labs, nil
}

// CountUsage builds the days × labs sample count table with a Total row.
// labs must already hold every lab in the month.
func (a *Aggregator) CountUsage(labs LabSet, days []string) (*model.Table, error) {
	columns := labs.Sorted()
	index := make(map[string]int, len(columns))
	for j, lab := range columns {
		index[lab] = j
	}

	cells := make([][]float64, len(days))
	for i, day := range days {
		files, err := a.scanner.ScanDay(day)
		if err != nil {
			return nil, err
		}

		row := make([]float64, len(columns))
		for _, file := range files {
			lab, err := a.extractor.ExtractLab(file)
			if err != nil {
				return nil, err
			}
			j, ok := index[lab]
			if !ok {
				return nil, fmt.Errorf("%w: %q in %s", ErrUnknownLab, lab, file)
			}
			row[j]++
		}
		cells[i] = row

		util.LogDebug("Counted day", util.F("day", day), util.F("samples", len(files)))
	}

	table, err := model.NewTable(days, columns, cells)
	if err != nil {
		return nil, err
	}
	return table.WithSummary(model.RowTotal), nil
}
