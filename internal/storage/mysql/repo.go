package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

// ER_DUP_ENTRY
const errDuplicateKey = 1062

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateKey
}

func valJSON(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID,
		h.UserID,
		h.Name,
		h.City,
		h.Country,
		h.Description,
		h.Type,
		h.AdultCount,
		h.ChildCount,
		h.PricePerNight,
		h.StarRating,
		valJSON(h.Facilities),
		valJSON(h.ImageURLs),
		h.LastUpdated,
	)
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	// RowsAffected counts changed rows only, so the re-read below is what
	// decides whether the (id, owner) pair matched.
	if _, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name,
		h.City,
		h.Country,
		h.Description,
		h.Type,
		h.AdultCount,
		h.ChildCount,
		h.PricePerNight,
		h.StarRating,
		valJSON(h.Facilities),
		valJSON(h.ImageURLs),
		h.LastUpdated,
		h.ID,
		h.UserID,
	); err != nil {
		return domain.Hotel{}, err
	}
	return r.GetOwnedHotel(ctx, h.ID, h.UserID)
}

func (r *Repo) AppendBooking(ctx context.Context, hotelID string, b domain.Booking) error {
	res, err := r.db.ExecContext(ctx, appendBookingSQL,
		b.ID,
		b.UserID,
		b.PaymentIntentID,
		b.FirstName,
		b.LastName,
		b.Email,
		b.AdultCount,
		b.ChildCount,
		b.CheckIn,
		b.CheckOut,
		b.TotalCost,
		b.CreatedAt,
		hotelID,
	)
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	return r.getOne(ctx, getHotelSQL, id)
}

func (r *Repo) GetOwnedHotel(ctx context.Context, id, userID string) (domain.Hotel, error) {
	return r.getOne(ctx, getOwnedHotelSQL, id, userID)
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	byHotel, err := r.loadBookings(ctx, []string{h.ID}, "")
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Bookings = byHotel[h.ID]
	return h, nil
}

func (r *Repo) ListByOwner(ctx context.Context, userID string) ([]domain.Hotel, error) {
	hs, err := r.list(ctx, listByOwnerSQL, userID)
	if err != nil {
		return nil, err
	}
	return r.attachBookings(ctx, hs, "")
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Hotel, error) {
	return r.list(ctx, listAllSQL)
}

func (r *Repo) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Hotel, error) {
	where, args := whereClause(q.Filter)
	query := "SELECT" + hotelColumns + "\nFROM hotels h\nWHERE " + where +
		"\nORDER BY " + orderClause(q.Sort) + "\nLIMIT ? OFFSET ?"
	args = append(args, domain.PageSize, q.Offset())
	return r.list(ctx, query, args...)
}

func (r *Repo) Count(ctx context.Context, f domain.Filter) (int, error) {
	where, args := whereClause(f)
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hotels h WHERE "+where, args...).Scan(&n)
	return n, err
}

// ListBookedBy returns hotels with at least one booking by userID, carrying
// only that user's bookings.
func (r *Repo) ListBookedBy(ctx context.Context, userID string) ([]domain.Hotel, error) {
	hs, err := r.list(ctx, listBookedBySQL, userID)
	if err != nil {
		return nil, err
	}
	return r.attachBookings(ctx, hs, userID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) attachBookings(ctx context.Context, hs []domain.Hotel, userID string) ([]domain.Hotel, error) {
	if len(hs) == 0 {
		return hs, nil
	}
	ids := make([]string, 0, len(hs))
	for _, h := range hs {
		ids = append(ids, h.ID)
	}
	byHotel, err := r.loadBookings(ctx, ids, userID)
	if err != nil {
		return nil, err
	}
	for i := range hs {
		if bs, ok := byHotel[hs[i].ID]; ok {
			hs[i].Bookings = bs
		}
	}
	return hs, nil
}

// loadBookings fetches the bookings of the given hotels in commit order,
// optionally restricted to one user.
func (r *Repo) loadBookings(ctx context.Context, hotelIDs []string, userID string) (map[string][]domain.Booking, error) {
	args := make([]any, 0, len(hotelIDs)+1)
	for _, id := range hotelIDs {
		args = append(args, id)
	}
	var sb strings.Builder
	sb.WriteString("SELECT" + bookingColumns + "\nFROM bookings b\nWHERE b.hotel_id IN (" + placeholders(len(hotelIDs)) + ")")
	if userID != "" {
		sb.WriteString(" AND b.user_id = ?")
		args = append(args, userID)
	}
	sb.WriteString("\nORDER BY b.created_at, b.id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Booking, len(hotelIDs))
	for rows.Next() {
		var b domain.Booking
		var hotelID string
		if err := rows.Scan(
			&b.ID, &hotelID, &b.UserID, &b.PaymentIntentID,
			&b.FirstName, &b.LastName, &b.Email,
			&b.AdultCount, &b.ChildCount,
			&b.CheckIn, &b.CheckOut,
			&b.TotalCost, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[hotelID] = append(out[hotelID], b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var facilitiesJSON, imagesJSON []byte
	if err := s.Scan(
		&h.ID, &h.UserID,
		&h.Name, &h.City, &h.Country, &h.Description, &h.Type,
		&h.AdultCount, &h.ChildCount,
		&h.PricePerNight, &h.StarRating,
		&facilitiesJSON, &imagesJSON,
		&h.LastUpdated,
	); err != nil {
		return domain.Hotel{}, err
	}
	if len(facilitiesJSON) > 0 {
		if err := json.Unmarshal(facilitiesJSON, &h.Facilities); err != nil {
			return domain.Hotel{}, fmt.Errorf("hotel %s facilities: %w", h.ID, err)
		}
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &h.ImageURLs); err != nil {
			return domain.Hotel{}, fmt.Errorf("hotel %s image_urls: %w", h.ID, err)
		}
	}
	if h.Facilities == nil {
		h.Facilities = []string{}
	}
	if h.ImageURLs == nil {
		h.ImageURLs = []string{}
	}
	h.Bookings = []domain.Booking{}
	return h, nil
}
