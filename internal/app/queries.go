package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const searchGenKey = "search:gen"

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	if c == nil {
		c = noCache{}
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// noCache always misses.
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any, int) error { return nil }
func (noCache) Del(context.Context, string) error { return nil }
func (noCache) Incr(context.Context, string) (int64, error) { return 0, nil }

// Search applies q's filter, sort and page window. Total is counted over the
// whole filter match, independent of the page.
func (s *QueryService) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	key := s.searchKey(ctx, "search", q)
	var out domain.SearchResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	hotels, err := s.repo.Search(ctx, q)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("search hotels: %w", err)
	}
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("count hotels: %w", err)
	}
	out = domain.SearchResult{
		Data: publicViews(hotels),
		Pagination: domain.Pagination{
			Total: total,
			Page:  q.Page,
			Pages: domain.PageCount(total),
		},
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// ListAll returns every hotel, most recently updated first.
func (s *QueryService) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	key := s.searchKey(ctx, "hotels:all", nil)
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	out = publicViews(out)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	h = publicView(h)
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

// searchKey namespaces list caches by the current write generation, so a
// bump in invalidateHotel orphans every cached page at once.
func (s *QueryService) searchKey(ctx context.Context, prefix string, v any) string {
	var gen int64
	if _, err := s.cache.Get(ctx, searchGenKey, &gen); err != nil {
		log.Debug().Err(err).Msg("search generation lookup failed")
	}
	b, _ := json.Marshal(v)
	sum := sha1.Sum(b)
	return fmt.Sprintf("%s:%d:%s", prefix, gen, hex.EncodeToString(sum[:]))
}

// publicView hides guest details; bookings are only shown to their owner.
func publicView(h domain.Hotel) domain.Hotel {
	h.Bookings = []domain.Booking{}
	return h
}

func publicViews(hs []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(hs))
	for _, h := range hs {
		out = append(out, publicView(h))
	}
	return out
}

func hotelKey(id string) string { return "hotel:" + id }

// invalidateHotel drops the cached hotel and every cached listing.
func invalidateHotel(ctx context.Context, c domain.Cache, id string) {
	if c == nil {
		return
	}
	if err := c.Del(ctx, hotelKey(id)); err != nil {
		log.Warn().Err(err).Str("hotel_id", id).Msg("cache del failed")
	}
	if _, err := c.Incr(ctx, searchGenKey); err != nil {
		log.Warn().Err(err).Msg("search generation bump failed")
	}
}
