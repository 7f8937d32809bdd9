package domain

import (
	"math"
	"strings"
)

// PageSize is the fixed number of hotels per search page.
const PageSize = 5

type ParamKind int

const (
	Absent ParamKind = iota
	Single
	Many
)

// Param is one query parameter after transport normalization: absent, a
// single value, or several values for multi-select fields.
type Param struct {
	Kind   ParamKind
	Values []string
}

// List returns the values of p; a Single value becomes a one-element list.
func (p Param) List() []string {
	if p.Kind == Absent {
		return nil
	}
	return p.Values
}

// First returns the first value, or "" when absent.
func (p Param) First() string {
	if p.Kind == Absent || len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

type SortOption string

const (
	SortDefault    SortOption = ""
	SortStarRating SortOption = "starRating"
	SortPriceAsc   SortOption = "pricePerNightAsc"
	SortPriceDesc  SortOption = "pricePerNightDesc"
)

func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortStarRating, SortPriceAsc, SortPriceDesc:
		return SortOption(s)
	}
	return SortDefault
}

// Filter is the normalized search predicate. A nil pointer or empty slice
// means "no constraint" for that clause.
type Filter struct {
	Destination string
	MinAdults   *int
	MinChildren *int
	Facilities  []string
	Types       []string
	Stars       []int
	MaxPrice    *int
}

// Matches reports whether h satisfies every clause of f.
func (f Filter) Matches(h Hotel) bool {
	if f.Destination != "" {
		d := strings.ToLower(f.Destination)
		if !strings.Contains(strings.ToLower(h.City), d) && !strings.Contains(strings.ToLower(h.Country), d) {
			return false
		}
	}
	if f.MinAdults != nil && h.AdultCount < *f.MinAdults {
		return false
	}
	if f.MinChildren != nil && h.ChildCount < *f.MinChildren {
		return false
	}
	if len(f.Facilities) > 0 {
		have := make(map[string]struct{}, len(h.Facilities))
		for _, fc := range h.Facilities {
			have[fc] = struct{}{}
		}
		for _, want := range f.Facilities {
			if _, ok := have[want]; !ok {
				return false
			}
		}
	}
	if len(f.Types) > 0 && !containsStr(f.Types, h.Type) {
		return false
	}
	if len(f.Stars) > 0 && !containsInt(f.Stars, h.StarRating) {
		return false
	}
	if f.MaxPrice != nil && h.PricePerNight > *f.MaxPrice {
		return false
	}
	return true
}

func containsStr(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

type SearchQuery struct {
	Filter Filter
	Sort   SortOption
	Page   int
}

// Offset is the number of matching hotels skipped before the requested page.
func (q SearchQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	// No data set reaches this far; saturate instead of wrapping negative.
	if q.Page-1 > math.MaxInt/PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * PageSize
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type SearchResult struct {
	Data       []Hotel    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageCount is ceil(total / PageSize).
func PageCount(total int) int {
	return (total + PageSize - 1) / PageSize
}
