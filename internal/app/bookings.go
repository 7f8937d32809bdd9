package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const (
	currency = "usd"
	// Largest amount in cents that int and int64 both hold.
	maxChargeCents = math.MaxInt
)

type BookingService struct {
	hotels   domain.HotelRepository
	payments domain.PaymentProvider
	events   domain.EventPublisher
	cache    domain.Cache
	now      func() time.Time
}

// NewBookingService wires the reconciliation flow. events and cache may be nil.
func NewBookingService(h domain.HotelRepository, p domain.PaymentProvider, ev domain.EventPublisher, c domain.Cache) *BookingService {
	return &BookingService{hotels: h, payments: p, events: ev, cache: c, now: time.Now}
}

type PaymentIntentResult struct {
	ReservationID string `json:"reservationId"`
	ClientSecret  string `json:"clientSecret"`
	TotalCost     int    `json:"totalCost"`
}

// CreatePaymentIntent prices the stay from the stored nightly rate and opens
// a reservation with the payment provider tagged with hotel and user.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, hotelID, userID string, nights int) (PaymentIntentResult, error) {
	if nights < 1 {
		v := &domain.ValidationError{}
		v.Add("numberOfNights", "numberOfNights must be a positive integer")
		return PaymentIntentResult{}, v
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return PaymentIntentResult{}, fmt.Errorf("load hotel %s: %w", hotelID, err)
	}

	if h.PricePerNight > 0 && int64(nights) > maxChargeCents/100/int64(h.PricePerNight) {
		v := &domain.ValidationError{}
		v.Add("numberOfNights", "numberOfNights is too large")
		return PaymentIntentResult{}, v
	}
	totalCost := h.PricePerNight * nights
	pi, err := s.payments.CreateIntent(ctx, int64(totalCost)*100, currency, map[string]string{
		"hotelId": hotelID,
		"userId":  userID,
	})
	if err != nil {
		return PaymentIntentResult{}, fmt.Errorf("create payment intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return PaymentIntentResult{}, errors.New("payment provider returned no client secret")
	}
	return PaymentIntentResult{
		ReservationID: pi.ID,
		ClientSecret:  pi.ClientSecret,
		TotalCost:     totalCost,
	}, nil
}

type BookingRequest struct {
	PaymentIntentID string    `json:"paymentIntentId" validate:"required"`
	FirstName       string    `json:"firstName" validate:"required"`
	LastName        string    `json:"lastName" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	AdultCount      int       `json:"adultCount" validate:"min=1"`
	ChildCount      int       `json:"childCount" validate:"min=0"`
	CheckIn         time.Time `json:"checkIn" validate:"required"`
	CheckOut        time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
}

// ConfirmBooking re-reads the reservation from the provider and commits the
// booking only when it belongs to this hotel and caller and has succeeded.
// Any rejection leaves the hotel untouched.
func (s *BookingService) ConfirmBooking(ctx context.Context, hotelID, userID string, req BookingRequest) (domain.Booking, error) {
	if err := Validate(req); err != nil {
		return domain.Booking{}, err
	}

	pi, err := s.payments.GetIntent(ctx, req.PaymentIntentID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, &domain.ReconciliationError{Reason: "payment intent not found"}
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if pi.Metadata["hotelId"] != hotelID || pi.Metadata["userId"] != userID {
		return domain.Booking{}, &domain.ReconciliationError{Reason: "payment intent mismatch"}
	}
	if pi.Status != domain.PaymentSucceeded {
		return domain.Booking{}, &domain.ReconciliationError{
			Reason: fmt.Sprintf("payment intent not succeeded. Status: %s", pi.Status),
		}
	}

	b := domain.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		AdultCount:      req.AdultCount,
		ChildCount:      req.ChildCount,
		CheckIn:         req.CheckIn.UTC(),
		CheckOut:        req.CheckOut.UTC(),
		TotalCost:       int(pi.AmountCents / 100),
		PaymentIntentID: pi.ID,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.hotels.AppendBooking(ctx, hotelID, b); err != nil {
		return domain.Booking{}, fmt.Errorf("append booking to hotel %s: %w", hotelID, err)
	}
	invalidateHotel(ctx, s.cache, hotelID)
	s.publish(ctx, hotelID, b)
	return b, nil
}

func (s *BookingService) publish(ctx context.Context, hotelID string, b domain.Booking) {
	if s.events == nil {
		return
	}
	ev := domain.BookingConfirmed{
		BookingID:       b.ID,
		HotelID:         hotelID,
		UserID:          b.UserID,
		Email:           b.Email,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		TotalCost:       b.TotalCost,
		PaymentIntentID: b.PaymentIntentID,
		ConfirmedAt:     b.CreatedAt,
	}
	if h, err := s.hotels.GetHotel(ctx, hotelID); err == nil {
		ev.HotelName = h.Name
	}
	if err := s.events.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Msg("publish booking.confirmed failed")
	}
}

// MyBookings returns the hotels userID has booked, each showing only that
// user's bookings.
func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]domain.Hotel, error) {
	hotels, err := s.hotels.ListBookedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", userID, err)
	}
	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if own := h.BookingsOf(userID); len(own.Bookings) > 0 {
			out = append(out, own)
		}
	}
	return out, nil
}
