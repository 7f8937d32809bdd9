package mysql

import (
	"encoding/json"
	"strings"

	"hotel_booking/internal/domain"
)

// likeEscaper makes LIKE wildcards in user input match literally; '!' is the
// ESCAPE character used in the generated clause.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// whereClause renders f as a SQL condition over hotels aliased as h.
func whereClause(f domain.Filter) (string, []any) {
	conds := []string{}
	args := []any{}

	if f.Destination != "" {
		pat := "%" + likeEscaper.Replace(strings.ToLower(f.Destination)) + "%"
		conds = append(conds, "(LOWER(h.city) LIKE ? ESCAPE '!' OR LOWER(h.country) LIKE ? ESCAPE '!')")
		args = append(args, pat, pat)
	}
	if f.MinAdults != nil {
		conds = append(conds, "h.adult_count >= ?")
		args = append(args, *f.MinAdults)
	}
	if f.MinChildren != nil {
		conds = append(conds, "h.child_count >= ?")
		args = append(args, *f.MinChildren)
	}
	if len(f.Facilities) > 0 {
		// JSON_CONTAINS with an array candidate requires every element.
		b, _ := json.Marshal(f.Facilities)
		conds = append(conds, "JSON_CONTAINS(h.facilities, ?)")
		args = append(args, string(b))
	}
	if len(f.Types) > 0 {
		conds = append(conds, "h.type IN ("+placeholders(len(f.Types))+")")
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if len(f.Stars) > 0 {
		conds = append(conds, "h.star_rating IN ("+placeholders(len(f.Stars))+")")
		for _, s := range f.Stars {
			args = append(args, s)
		}
	}
	if f.MaxPrice != nil {
		conds = append(conds, "h.price_per_night <= ?")
		args = append(args, *f.MaxPrice)
	}

	if len(conds) == 0 {
		return "1=1", args
	}
	return strings.Join(conds, " AND "), args
}

// orderClause always ends on h.seq so equal keys paginate stably.
func orderClause(s domain.SortOption) string {
	switch s {
	case domain.SortStarRating:
		return "h.star_rating DESC, h.seq"
	case domain.SortPriceAsc:
		return "h.price_per_night ASC, h.seq"
	case domain.SortPriceDesc:
		return "h.price_per_night DESC, h.seq"
	}
	return "h.seq"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
