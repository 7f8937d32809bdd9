package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q, err := app.BuildSearchQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	out, err := h.Q.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		v := &domain.ValidationError{}
		v.Add("id", "Hotel ID is required")
		writeError(w, r, v, http.StatusNotFound)
		return
	}
	out, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeCacheable(w, r, out)
}
