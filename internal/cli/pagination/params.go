package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Limits and defaults for listing flags.
const (
	DefaultLimit  = 0
	MaxLimit      = 10000
	DefaultOffset = 0
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	sortPartsMax = 2
)

// Validation errors.
var (
	ErrInvalidLimit      = fmt.Errorf("limit must be between 0 and %d", MaxLimit)
	ErrInvalidOffset     = errors.New("offset must be non-negative")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'sap:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the listing flags of a command.
type Params struct {
	// Limit caps the number of rows shown; 0 shows all.
	Limit int

	// Offset skips that many rows first.
	Offset int

	// Sort is "field" or "field:order"; empty keeps input order.
	Sort string
}

// Validate checks bounds and the sort expression.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w, got %d", ErrInvalidLimit, p.Limit)
	}
	if p.Offset < 0 {
		return ErrInvalidOffset
	}
	if p.Sort != "" {
		if _, _, err := ParseSort(p.Sort); err != nil {
			return err
		}
	}
	return nil
}

// Window returns the half-open range of rows to show out of total.
//
//nolint:nonamedreturns // start/end read better than two ints.
func (p Params) Window(total int) (start, end int) {
	start = min(p.Offset, total)
	end = total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}
	return start, end
}

// ParseSort parses "field" or "field:order". The order defaults to
// ascending.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(expr string) (field, order string, err error) {
	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	field = strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", ErrEmptySortField
	}
	order = SortOrderAsc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
