package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/domain"
)

func hotel(id, owner string, price, stars int) domain.Hotel {
	return domain.Hotel{
		ID: id, UserID: owner, Name: id, City: "Porto", Country: "Portugal",
		Type: "Budget", AdultCount: 2, PricePerNight: price, StarRating: stars,
		Facilities: []string{"Spa"}, LastUpdated: time.Now(),
	}
}

func TestStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateHotel(ctx, hotel("a", "u1", 100, 3)))

	h, err := s.GetHotel(ctx, "a")
	require.NoError(t, err)
	h.Facilities[0] = "changed"

	again, _ := s.GetHotel(ctx, "a")
	assert.Equal(t, []string{"Spa"}, again.Facilities)
	assert.ErrorIs(t, s.CreateHotel(ctx, hotel("a", "u1", 1, 1)), domain.ErrConflict)
}

func TestStore_UpdateKeepsBookingsAndOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateHotel(ctx, hotel("a", "u1", 100, 3)))
	require.NoError(t, s.AppendBooking(ctx, "a", domain.Booking{ID: "b1", UserID: "g", PaymentIntentID: "pi_1"}))

	_, err := s.UpdateHotel(ctx, hotel("a", "intruder", 1, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	upd := hotel("a", "u1", 250, 4)
	out, err := s.UpdateHotel(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, 250, out.PricePerNight)
	require.Len(t, out.Bookings, 1)
	assert.Equal(t, "b1", out.Bookings[0].ID)
}

func TestStore_AppendBooking(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateHotel(ctx, hotel("a", "u1", 100, 3)))
	require.NoError(t, s.CreateHotel(ctx, hotel("b", "u1", 100, 3)))

	require.NoError(t, s.AppendBooking(ctx, "a", domain.Booking{ID: "b1", PaymentIntentID: "pi_1"}))
	// an intent is single-use across all hotels
	assert.ErrorIs(t, s.AppendBooking(ctx, "b", domain.Booking{ID: "b2", PaymentIntentID: "pi_1"}), domain.ErrConflict)
	assert.ErrorIs(t, s.AppendBooking(ctx, "zzz", domain.Booking{ID: "b3", PaymentIntentID: "pi_2"}), domain.ErrNotFound)
}

func TestStore_SearchPagesAndSorts(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, p := range []int{300, 100, 200, 500, 400, 600, 700} {
		require.NoError(t, s.CreateHotel(ctx, hotel(string(rune('a'+i)), "u1", p, 3)))
	}

	page1, err := s.Search(ctx, domain.SearchQuery{Page: 1, Sort: domain.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page1, domain.PageSize)
	assert.Equal(t, 100, page1[0].PricePerNight)

	page2, _ := s.Search(ctx, domain.SearchQuery{Page: 2, Sort: domain.SortPriceAsc})
	require.Len(t, page2, 2)
	assert.Equal(t, 700, page2[1].PricePerNight)

	page9, _ := s.Search(ctx, domain.SearchQuery{Page: 9})
	assert.Empty(t, page9)

	far, err := s.Search(ctx, domain.SearchQuery{Page: 2305843009213693952})
	require.NoError(t, err)
	assert.Empty(t, far)

	n, _ := s.Count(ctx, domain.Filter{})
	assert.Equal(t, 7, n)
}

func TestStore_UsersAreCaseInsensitiveByEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, domain.User{ID: "1", Email: "a@b.io"}))
	assert.ErrorIs(t, s.CreateUser(ctx, domain.User{ID: "2", Email: "A@B.IO"}), domain.ErrUserExists)

	u, err := s.GetUserByEmail(ctx, "A@b.io")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	_, err = s.GetUserByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		h := hotel(id, "u1", 100, 3)
		h.LastUpdated = ts
		require.NoError(t, s.CreateHotel(ctx, h))
	}
	newer := hotel("d", "u1", 100, 3)
	newer.LastUpdated = ts.Add(time.Hour)
	require.NoError(t, s.CreateHotel(ctx, newer))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	var ids []string
	for _, h := range all {
		ids = append(ids, h.ID)
	}
	// equal timestamps fall back to latest insert first, as in MySQL
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
}
