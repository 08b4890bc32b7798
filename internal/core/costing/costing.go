package costing

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
)

// ErrNoLabs is returned when there is nobody to split monthly costs between
var ErrNoLabs = errors.New("no usage recorded this month")

// UsageDays marks each day a lab used the counter with 1 and appends a
// "Total days used" row.
func UsageDays(counts *model.Table) (*model.Table, error) {
	used, err := counts.Body().Map(func(row []float64) []float64 {
		for j, v := range row {
			if v > 0 {
				row[j] = 1
			}
		}
		return row
	})
	if err != nil {
		return nil, err
	}
	return used.WithSummary(model.RowTotalDaysUsed), nil
}

// StartupShutdown splits each day's startup and shutdown cost evenly between
// the labs that ran samples that day and appends a "Total" row. Days without
// samples are charged to nobody.
func StartupShutdown(counts *model.Table, rates pricing.Rates) (*model.Table, error) {
	daily := rates.StartupShutdown()
	allocated, err := counts.Body().Map(func(row []float64) []float64 {
		active := 0
		for _, v := range row {
			if v > 0 {
				active++
			}
		}
		share := make([]float64, len(row))
		if active == 0 {
			return share
		}
		for j, v := range row {
			if v > 0 {
				share[j] = daily / float64(active)
			}
		}
		return share
	})
	if err != nil {
		return nil, err
	}
	return allocated.WithSummary(model.RowTotal), nil
}

// LabCost is the monthly charge for one lab
type LabCost struct {
	Lab             string  `json:"lab"`
	Samples         int     `json:"samples"`
	DaysUsed        int     `json:"daysUsed"`
	CountCost       float64 `json:"countCost"`
	StartupShutdown float64 `json:"startupShutdown"`
	QC              float64 `json:"qc"`
	Bleach          float64 `json:"bleach"`
	Total           float64 `json:"total"`
}

// Breakdown is the result of totalling a month
type Breakdown struct {
	Labs []LabCost `json:"labs"`

	// Monthly figures before and after the even split
	QCCost           float64 `json:"qcCost"`
	BleachCost       float64 `json:"bleachCost"`
	QCPerLab         float64 `json:"qcPerLab"`
	BleachPerLab     float64 `json:"bleachPerLab"`
	StartupShutdowns int     `json:"startupShutdowns"`
	GrandTotal       float64 `json:"grandTotal"`
}

// Totals combines count costs, allocated startup/shutdown costs and the evenly
// split QC and bleach-clean costs into one charge per lab. counts and
// allocated must carry their summary rows; usage supplies days used per lab
// and may be nil.
func Totals(counts, allocated, usage *model.Table, rates pricing.Rates) (*Breakdown, error) {
	labs := counts.Labs()
	if len(labs) == 0 {
		return nil, ErrNoLabs
	}
	n := float64(len(labs))

	b := &Breakdown{
		Labs:         make([]LabCost, 0, len(labs)),
		QCCost:       rates.QCCost(),
		BleachCost:   rates.BleachCost(),
		QCPerLab:     rates.QCCost() / n,
		BleachPerLab: rates.BleachCost() / n,
	}
	for i := range counts.Rows() {
		if counts.ActiveLabs(i) > 0 {
			b.StartupShutdowns++
		}
	}

	for _, lab := range labs {
		samples := counts.Total(lab)
		c := LabCost{
			Lab:             lab,
			Samples:         int(samples),
			CountCost:       samples * rates.CostPerCount,
			StartupShutdown: allocated.Total(lab),
			QC:              b.QCPerLab,
			Bleach:          b.BleachPerLab,
		}
		if usage != nil {
			c.DaysUsed = int(usage.Total(lab))
		}
		c.Total = c.CountCost + c.StartupShutdown + c.QC + c.Bleach
		b.GrandTotal += c.Total
		b.Labs = append(b.Labs, c)
	}

	return b, nil
}

// Rounded returns a copy with every amount rounded to cents
func (c LabCost) Rounded() LabCost {
	c.CountCost = Round(c.CountCost)
	c.StartupShutdown = Round(c.StartupShutdown)
	c.QC = Round(c.QC)
	c.Bleach = Round(c.Bleach)
	c.Total = Round(c.Total)
	return c
}

// Round rounds an amount to two decimal places for display
func Round(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return math.NaN()
	}
	return r
}
