package contracts

import (
	"fmt"
	"strings"
)

// SortField is a sortable column of the index-value listing. The set is
// closed; anything else is a caller error.
type SortField string

const (
	SortByBaseDate     SortField = "baseDate"
	SortByClosingPrice SortField = "closingPrice"
)

// ParseSortField validates a sort field, defaulting blank to baseDate
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case SortByBaseDate, SortByClosingPrice:
		return SortField(s), nil
	case "":
		return SortByBaseDate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}

// SortDirection is the requested sort order
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns asc only on an explicit (case-insensitive)
// "asc"; everything else sorts descending
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// CursorPage is one page of an ordered listing. Items are strictly ordered
// by (sort field, id) in the requested direction; NextCursor resumes exactly
// after the last returned item. An empty NextCursor means exhaustion.
type CursorPage[T any] struct {
	Items      []T    `json:"content"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasNext    bool   `json:"hasNext"`
	Size       int    `json:"size"`
}
