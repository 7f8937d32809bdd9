package domain

import "time"

type Hotel struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	AdultCount    int       `json:"adultCount"`
	ChildCount    int       `json:"childCount"`
	Facilities    []string  `json:"facilities"`
	PricePerNight int       `json:"pricePerNight"`
	StarRating    int       `json:"starRating"`
	ImageURLs     []string  `json:"imageUrls"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Bookings      []Booking `json:"bookings"`
}

// Booking lives inside its Hotel; it is appended once and never edited.
type Booking struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	AdultCount      int       `json:"adultCount"`
	ChildCount      int       `json:"childCount"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	TotalCost       int       `json:"totalCost"`
	PaymentIntentID string    `json:"paymentIntentId"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookingsOf returns a copy of h whose booking list holds only userID's bookings.
func (h Hotel) BookingsOf(userID string) Hotel {
	out := h
	out.Bookings = make([]Booking, 0, len(h.Bookings))
	for _, b := range h.Bookings {
		if b.UserID == userID {
			out.Bookings = append(out.Bookings, b)
		}
	}
	return out
}
