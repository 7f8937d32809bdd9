package app

import (
	"strconv"
	"strings"

	"hotel_booking/internal/domain"
)

// Param normalizes the raw values of one query parameter. Both `name` and the
// bracketed `name[]` spelling are read, and empty strings are dropped because
// the web client sends every field even when it is unset.
func Param(values map[string][]string, name string) domain.Param {
	var out []string
	for _, key := range []string{name, name + "[]"} {
		for _, v := range values[key] {
			if t := strings.TrimSpace(v); t != "" {
				out = append(out, t)
			}
		}
	}
	switch len(out) {
	case 0:
		return domain.Param{Kind: domain.Absent}
	case 1:
		return domain.Param{Kind: domain.Single, Values: out}
	default:
		return domain.Param{Kind: domain.Many, Values: out}
	}
}

// BuildFilter turns raw search parameters into a filter predicate. Malformed
// numbers are rejected with a ValidationError naming each bad field.
func BuildFilter(values map[string][]string) (domain.Filter, error) {
	var f domain.Filter
	verr := &domain.ValidationError{}

	if p := Param(values, "destination"); p.Kind != domain.Absent {
		f.Destination = p.First()
	}
	f.MinAdults = parseCount(Param(values, "adultCount"), "adultCount", verr)
	f.MinChildren = parseCount(Param(values, "childCount"), "childCount", verr)
	f.MaxPrice = parseCount(Param(values, "maxPrice"), "maxPrice", verr)

	if p := Param(values, "facilities"); p.Kind != domain.Absent {
		f.Facilities = p.List()
	}
	if p := Param(values, "types"); p.Kind != domain.Absent {
		f.Types = p.List()
	}
	if p := Param(values, "stars"); p.Kind != domain.Absent {
		for _, s := range p.List() {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 5 {
				verr.Add("stars", "star ratings must be integers between 1 and 5")
				continue
			}
			f.Stars = append(f.Stars, n)
		}
	}

	if err := verr.OrNil(); err != nil {
		return domain.Filter{}, err
	}
	return f, nil
}

func parseCount(p domain.Param, field string, verr *domain.ValidationError) *int {
	if p.Kind == domain.Absent {
		return nil
	}
	n, err := strconv.Atoi(p.First())
	if err != nil || n < 0 {
		verr.Add(field, field+" must be a non-negative integer")
		return nil
	}
	return &n
}

// ParsePage reads a 1-indexed page number; anything unusable means page 1.
func ParsePage(p domain.Param) int {
	n, err := strconv.Atoi(p.First())
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// BuildSearchQuery assembles filter, sort order and page from raw parameters.
func BuildSearchQuery(values map[string][]string) (domain.SearchQuery, error) {
	f, err := BuildFilter(values)
	if err != nil {
		return domain.SearchQuery{}, err
	}
	return domain.SearchQuery{
		Filter: f,
		Sort:   domain.ParseSortOption(Param(values, "sortOption").First()),
		Page:   ParsePage(Param(values, "page")),
	}, nil
}
