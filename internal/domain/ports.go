package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) error
	// UpdateHotel matches on both id and owner; ErrNotFound otherwise.
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	// AppendBooking adds b to the hotel's booking list in one conditional
	// write. ErrNotFound when the hotel is gone, ErrConflict when a booking
	// for the same payment intent already exists.
	AppendBooking(ctx context.Context, hotelID string, b Booking) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	GetOwnedHotel(ctx context.Context, id, userID string) (Hotel, error)
	ListByOwner(ctx context.Context, userID string) ([]Hotel, error)
	ListAll(ctx context.Context) ([]Hotel, error)
	Search(ctx context.Context, q SearchQuery) ([]Hotel, error)
	Count(ctx context.Context, f Filter) (int, error)
	ListBookedBy(ctx context.Context, userID string) ([]Hotel, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

const PaymentSucceeded = "succeeded"

type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       string
	Metadata     map[string]string
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (PaymentIntent, error)
	// GetIntent returns ErrNotFound for unknown ids.
	GetIntent(ctx context.Context, id string) (PaymentIntent, error)
}

type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

type MediaUploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

type BookingConfirmed struct {
	BookingID       string    `json:"booking_id"`
	HotelID         string    `json:"hotel_id"`
	HotelName       string    `json:"hotel_name"`
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	TotalCost       int       `json:"total_cost"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ConfirmedAt     time.Time `json:"confirmed_at"`
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev BookingConfirmed) error
}

type TokenService interface {
	Issue(userID string) (token string, exp time.Time, err error)
	// Verify returns the user id carried by a valid token.
	Verify(token string) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}
