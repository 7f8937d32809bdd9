package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
)

type Handlers struct {
	Q        *app.QueryService
	Bookings *app.BookingService
	Hotels   *app.HotelService
	Auth     *app.AuthService
	// SecureCookies marks the session cookie Secure; set in production.
	SecureCookies bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	authed := RequireAuth(h.Auth)

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/hotels", func(r chi.Router) {
			r.Get("/search", h.searchHotels)
			r.Get("/", h.listHotels)
			r.Get("/{id}", h.getHotel)
			r.With(authed).Post("/{id}/bookings/payment-intent", h.createPaymentIntent)
			r.With(authed).Post("/{id}/bookings", h.confirmBooking)
		})

		r.With(authed).Get("/my-bookings", h.myBookings)

		r.Route("/my-hotels", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", h.createMyHotel)
			r.Get("/", h.listMyHotels)
			r.Get("/{id}", h.getMyHotel)
			r.Put("/{id}", h.updateMyHotel)
		})

		r.Post("/users/register", h.register)
		r.With(authed).Get("/users/me", h.me)

		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)
		r.With(authed).Get("/auth/validate-token", h.validateToken)
	})
}
