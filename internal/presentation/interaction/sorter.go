package interaction

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-counter-recovery/internal/core/costing"
)

// SortField represents the field to sort lab costs by
type SortField int

const (
	SortByLab SortField = iota
	SortBySamples
	SortByTotal
)

var sortFieldNames = map[string]SortField{
	"lab":     SortByLab,
	"samples": SortBySamples,
	"total":   SortByTotal,
}

// ParseSortField maps a --sort value to a SortField; empty means lab
func ParseSortField(name string) (SortField, error) {
	if name == "" {
		return SortByLab, nil
	}
	field, ok := sortFieldNames[name]
	if !ok {
		return SortByLab, fmt.Errorf("unsupported sort field %q (lab, samples, total)", name)
	}
	return field, nil
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// LabSorter orders the per-lab rows of the final cost breakdown
type LabSorter struct {
	field SortField
	order SortOrder
}

func NewLabSorter(field SortField, order SortOrder) *LabSorter {
	return &LabSorter{
		field: field,
		order: order,
	}
}

// Sort sorts costs in place. Ties are broken by lab name, ascending.
func (s *LabSorter) Sort(costs []costing.LabCost) {
	sort.SliceStable(costs, func(i, j int) bool {
		a, b := costs[i], costs[j]
		if s.order == SortDescending {
			a, b = b, a
		}

		switch s.field {
		case SortBySamples:
			if a.Samples != b.Samples {
				return a.Samples < b.Samples
			}
		case SortByTotal:
			if a.Total != b.Total {
				return a.Total < b.Total
			}
		default:
			return a.Lab < b.Lab
		}
		return costs[i].Lab < costs[j].Lab
	})
}
