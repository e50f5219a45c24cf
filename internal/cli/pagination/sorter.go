package pagination

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/carboncoop/homeenergy/internal/report"
)

// Sort field names accepted by SummarySorter.
const (
	FieldName    = "name"
	FieldSAP     = "sap"
	FieldCost    = "cost"
	FieldHeating = "heating"
	FieldCO2     = "co2"
	FieldFEE     = "fee"
)

// SummarySorter orders report summaries by one field.
type SummarySorter struct {
	less map[string]func(a, b report.Summary) bool
}

// NewSummarySorter returns a sorter for every Field* name.
func NewSummarySorter() *SummarySorter {
	return &SummarySorter{less: map[string]func(a, b report.Summary) bool{
		FieldName:    func(a, b report.Summary) bool { return a.Name < b.Name },
		FieldSAP:     func(a, b report.Summary) bool { return a.SAPRating < b.SAPRating },
		FieldCost:    func(a, b report.Summary) bool { return a.TotalCost.LessThan(b.TotalCost) },
		FieldHeating: func(a, b report.Summary) bool { return a.SpaceHeatingM2 < b.SpaceHeatingM2 },
		FieldCO2:     func(a, b report.Summary) bool { return a.AnnualCO2 < b.AnnualCO2 },
		FieldFEE:     func(a, b report.Summary) bool { return lessNaNLast(a.FEE, b.FEE) },
	}}
}

// IsValidField reports whether field can be sorted on.
func (s *SummarySorter) IsValidField(field string) bool {
	_, ok := s.less[field]
	return ok
}

// ValidFields returns the sortable field names in order.
func (s *SummarySorter) ValidFields() []string {
	fields := make([]string, 0, len(s.less))
	for f := range s.less {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of summaries. Failed scenarios always come
// last, in input order.
func (s *SummarySorter) Sort(summaries []report.Summary, field, order string) ([]report.Summary, error) {
	less, ok := s.less[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.ValidFields(), ", "))
	}

	sorted := append([]report.Summary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.Err != nil) != (b.Err != nil) {
			return a.Err == nil
		}
		if a.Err != nil {
			return false
		}
		if order == SortOrderDesc {
			return less(b, a)
		}
		return less(a, b)
	})
	return sorted, nil
}

// Apply validates p, sorts summaries by p.Sort and returns the requested
// window.
func Apply(summaries []report.Summary, p Params) ([]report.Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := summaries
	if p.Sort != "" {
		field, order, _ := ParseSort(p.Sort)
		var err error
		if out, err = NewSummarySorter().Sort(summaries, field, order); err != nil {
			return nil, err
		}
	}
	start, end := p.Window(len(out))
	return out[start:end], nil
}

func lessNaNLast(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	default:
		return a < b
	}
}
