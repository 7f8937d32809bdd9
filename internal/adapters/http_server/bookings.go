package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// flexInt accepts a JSON number or a numeric string. Anything else leaves
// ok false instead of failing the whole body.
type flexInt struct {
	n  int
	ok bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	f.n, f.ok = n, true
	return nil
}

type paymentIntentBody struct {
	NumberOfNights flexInt `json:"numberOfNights"`
}

func (h *Handlers) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	var body paymentIntentBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	// a missing or non-numeric value arrives as 0 and is rejected as < 1
	out, err := h.Bookings.CreatePaymentIntent(r.Context(), chi.URLParam(r, "id"), userID, body.NumberOfNights.n)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type confirmBody struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ReservationID   string  `json:"reservationId"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	AdultCount      flexInt `json:"adultCount"`
	ChildCount      flexInt `json:"childCount"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
}

// request converts the wire body; totalCost and hotelId from the client are
// ignored.
func (b confirmBody) request() (app.BookingRequest, error) {
	verr := &domain.ValidationError{}
	req := app.BookingRequest{
		PaymentIntentID: b.PaymentIntentID,
		FirstName:       strings.TrimSpace(b.FirstName),
		LastName:        strings.TrimSpace(b.LastName),
		Email:           strings.TrimSpace(b.Email),
		AdultCount:      b.AdultCount.n,
		ChildCount:      b.ChildCount.n,
	}
	if req.PaymentIntentID == "" {
		req.PaymentIntentID = b.ReservationID
	}
	if !b.AdultCount.ok {
		verr.Add("adultCount", "adultCount must be an integer")
	}
	if !b.ChildCount.ok {
		verr.Add("childCount", "childCount must be an integer")
	}
	var err error
	if req.CheckIn, err = parseDate(b.CheckIn); err != nil {
		verr.Add("checkIn", "checkIn must be a date")
	}
	if req.CheckOut, err = parseDate(b.CheckOut); err != nil {
		verr.Add("checkOut", "checkOut must be a date")
	}
	return req, verr.OrNil()
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("bad date")
}

func (h *Handlers) confirmBooking(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	var body confirmBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	req, err := body.request()
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}

	b, err := h.Bookings.ConfirmBooking(r.Context(), chi.URLParam(r, "id"), userID, req)
	observability.ObserveBooking(bookingOutcome(err))
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func bookingOutcome(err error) string {
	var verr *domain.ValidationError
	var rerr *domain.ReconciliationError
	switch {
	case err == nil:
		return "confirmed"
	case errors.As(err, &verr), errors.As(err, &rerr):
		return "rejected"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	}
	return "error"
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	out, err := h.Bookings.MyBookings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
