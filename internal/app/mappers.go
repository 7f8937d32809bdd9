package app

import (
	"strconv"
	"strings"
	"time"

	"hotel_booking/internal/domain"
)

/********** alias registry (single source of truth) **********/

// hotelAliases lists where each field may live in a seed payload. Fixtures
// come from exports of the old document store as well as hand-written files.
var hotelAliases = map[string][]string{
	"id":            {"_id", "_id.$oid", "id"},
	"userId":        {"userId", "user_id", "owner"},
	"name":          {"name", "hotel_name"},
	"city":          {"city", "address.city", "location.city"},
	"country":       {"country", "address.country", "location.country"},
	"description":   {"description", "summary"},
	"type":          {"type", "hotel_type", "category"},
	"adultCount":    {"adultCount", "adult_count", "capacity.adults"},
	"childCount":    {"childCount", "child_count", "capacity.children"},
	"pricePerNight": {"pricePerNight", "price_per_night", "price"},
	"starRating":    {"starRating", "star_rating", "stars"},
	"facilities":    {"facilities", "amenities"},
	"imageUrls":     {"imageUrls", "image_urls", "images"},
	"lastUpdated":   {"lastUpdated", "lastUpdated.$date", "updated_at"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmpty: first non-empty string for a named alias set.
func firstNonEmpty(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// intFlexible: int from the alias set (float64/int/string like "120" or "4.0").
func intFlexible(m map[string]any, key string) int {
	for _, k := range hotelAliases[key] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return int(f)
			}
		}
	}
	return 0
}

// slicesFlexible: accept []any with either strings or {url/src/name}.
func slicesFlexible(m map[string]any, key string) []string {
	for _, k := range hotelAliases[key] {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, f := range []string{"url", "src", "name"} {
					if u, ok := t[f].(string); ok && u != "" {
						out = append(out, u)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

func timeFlexible(m map[string]any, key string) time.Time {
	for _, k := range hotelAliases[key] {
		if s := lookupStr(m, k); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

/********** hotel mapper **********/

func mapHotel(p map[string]any) domain.Hotel {
	return domain.Hotel{
		ID:            firstNonEmpty(p, "id"),
		UserID:        firstNonEmpty(p, "userId"),
		Name:          firstNonEmpty(p, "name"),
		City:          firstNonEmpty(p, "city"),
		Country:       firstNonEmpty(p, "country"),
		Description:   firstNonEmpty(p, "description"),
		Type:          firstNonEmpty(p, "type"),
		AdultCount:    intFlexible(p, "adultCount"),
		ChildCount:    intFlexible(p, "childCount"),
		PricePerNight: intFlexible(p, "pricePerNight"),
		StarRating:    intFlexible(p, "starRating"),
		Facilities:    slicesFlexible(p, "facilities"),
		ImageURLs:     slicesFlexible(p, "imageUrls"),
		LastUpdated:   timeFlexible(p, "lastUpdated"),
		Bookings:      []domain.Booking{},
	}
}

// inputOf projects a hotel back onto the owner-editable fields for validation.
func inputOf(h domain.Hotel) HotelInput {
	return HotelInput{
		Name:          h.Name,
		City:          h.City,
		Country:       h.Country,
		Description:   h.Description,
		Type:          h.Type,
		AdultCount:    h.AdultCount,
		ChildCount:    h.ChildCount,
		PricePerNight: h.PricePerNight,
		StarRating:    h.StarRating,
		Facilities:    h.Facilities,
		ImageURLs:     h.ImageURLs,
	}
}
