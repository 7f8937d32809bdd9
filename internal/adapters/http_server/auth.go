package httpserver

import (
	"net/http"
	"time"

	"hotel_booking/internal/app"
)

func (h *Handlers) setSession(w http.ResponseWriter, s app.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.Expires,
		MaxAge:   int(time.Until(s.Expires).Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	s, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	h.setSession(w, s)
	writeMessage(w, http.StatusOK, "User registered OK")
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	s, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	h.setSession(w, s)
	writeJSON(w, http.StatusOK, map[string]string{"userId": s.UserID})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) validateToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	u, err := h.Auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
