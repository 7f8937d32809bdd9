// Package memory is an in-process store with the same semantics as the MySQL
// repository. It backs local runs with STORE=memory and the service tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	hotels map[string]*domain.Hotel
	order  []string // insertion order, the default sort
	users  map[string]domain.User
	// payment intent id -> booking id, the single-use marker
	consumed map[string]string
}

func New() *Store {
	return &Store{
		hotels:   map[string]*domain.Hotel{},
		users:    map[string]domain.User{},
		consumed: map[string]string{},
	}
}

func clone(h domain.Hotel) domain.Hotel {
	h.Facilities = append([]string{}, h.Facilities...)
	h.ImageURLs = append([]string{}, h.ImageURLs...)
	h.Bookings = append([]domain.Booking{}, h.Bookings...)
	return h
}

func (s *Store) CreateHotel(ctx context.Context, h domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[h.ID]; ok {
		return domain.ErrConflict
	}
	c := clone(h)
	s.hotels[h.ID] = &c
	s.order = append(s.order, h.ID)
	for _, b := range h.Bookings {
		s.consumed[b.PaymentIntentID] = b.ID
	}
	return nil
}

func (s *Store) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.hotels[h.ID]
	if !ok || cur.UserID != h.UserID {
		return domain.Hotel{}, domain.ErrNotFound
	}
	next := clone(h)
	next.Bookings = cur.Bookings // bookings are never rewritten by an update
	*cur = next
	return clone(*cur), nil
}

func (s *Store) AppendBooking(ctx context.Context, hotelID string, b domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hotels[hotelID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, used := s.consumed[b.PaymentIntentID]; used {
		return domain.ErrConflict
	}
	s.consumed[b.PaymentIntentID] = b.ID
	h.Bookings = append(h.Bookings, b)
	return nil
}

func (s *Store) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return clone(*h), nil
}

func (s *Store) GetOwnedHotel(ctx context.Context, id, userID string) (domain.Hotel, error) {
	h, err := s.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if h.UserID != userID {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (s *Store) ListByOwner(ctx context.Context, userID string) ([]domain.Hotel, error) {
	return s.collect(func(h *domain.Hotel) bool { return h.UserID == userID }), nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	out := s.collect(func(*domain.Hotel) bool { return true })
	// newest insert first among equal timestamps
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (s *Store) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	out := s.collect(func(h *domain.Hotel) bool { return q.Filter.Matches(*h) })
	switch q.Sort {
	case domain.SortStarRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].StarRating > out[j].StarRating })
	case domain.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	case domain.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight > out[j].PricePerNight })
	}
	off := q.Offset()
	if off < 0 || off >= len(out) {
		return []domain.Hotel{}, nil
	}
	end := off + domain.PageSize
	if end > len(out) {
		end = len(out)
	}
	return out[off:end], nil
}

func (s *Store) Count(ctx context.Context, f domain.Filter) (int, error) {
	return len(s.collect(func(h *domain.Hotel) bool { return f.Matches(*h) })), nil
}

func (s *Store) ListBookedBy(ctx context.Context, userID string) ([]domain.Hotel, error) {
	return s.collect(func(h *domain.Hotel) bool {
		for _, b := range h.Bookings {
			if b.UserID == userID {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) collect(keep func(*domain.Hotel) bool) []domain.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Hotel{}
	for _, id := range s.order {
		if h := s.hotels[id]; keep(h) {
			out = append(out, clone(*h))
		}
	}
	return out
}

func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrUserExists
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}
