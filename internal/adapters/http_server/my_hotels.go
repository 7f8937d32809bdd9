package httpserver

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// Slack on top of the image budget for the text fields.
const maxFormOverhead = 1 << 20

var indexedKey = regexp.MustCompile(`^([A-Za-z]+)\[(\d*)\]$`)

func (h *Handlers) createMyHotel(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	in, images, err := parseHotelForm(w, r)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	out, err := h.Hotels.Create(r.Context(), userID, in, images)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) listMyHotels(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	out, err := h.Hotels.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getMyHotel(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	out, err := h.Hotels.GetMine(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateMyHotel(w http.ResponseWriter, r *http.Request) {
	userID, _ := IdentityFrom(r.Context())
	in, images, err := parseHotelForm(w, r)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	out, err := h.Hotels.Update(r.Context(), userID, chi.URLParam(r, "id"), in, images)
	if err != nil {
		writeError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// parseHotelForm reads the multipart hotel form. List fields may be sent as
// repeated keys or as key[0], key[1], ... in index order.
func parseHotelForm(w http.ResponseWriter, r *http.Request) (app.HotelInput, []domain.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(app.MaxImages+1)*app.MaxImageBytes+maxFormOverhead)
	if err := r.ParseMultipartForm(maxFormOverhead); err != nil {
		v := &domain.ValidationError{}
		v.Add("body", "request must be multipart/form-data within the upload limits")
		return app.HotelInput{}, nil, v
	}
	form := r.MultipartForm.Value
	get := func(k string) string {
		if vs := form[k]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	verr := &domain.ValidationError{}
	num := func(k string) int {
		s := get(k)
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			verr.Add(k, k+" must be a number")
		}
		return n
	}

	in := app.HotelInput{
		Name:          get("name"),
		City:          get("city"),
		Country:       get("country"),
		Description:   get("description"),
		Type:          get("type"),
		AdultCount:    num("adultCount"),
		ChildCount:    num("childCount"),
		PricePerNight: num("pricePerNight"),
		StarRating:    num("starRating"),
		Facilities:    listField(form, "facilities"),
		ImageURLs:     listField(form, "imageUrls"),
	}

	images, err := readImages(r.MultipartForm.File["imageFiles"])
	if err != nil {
		return app.HotelInput{}, nil, err
	}
	if err := verr.OrNil(); err != nil {
		return app.HotelInput{}, nil, err
	}
	return in, images, nil
}

// listField collects name, name[] and name[i] values; indexed entries are
// ordered by index after the unindexed ones.
func listField(form map[string][]string, name string) []string {
	out := []string{}
	for _, v := range append(form[name], form[name+"[]"]...) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	type indexed struct {
		i int
		v string
	}
	var idx []indexed
	for k, vs := range form {
		m := indexedKey.FindStringSubmatch(k)
		if m == nil || m[1] != name || m[2] == "" {
			continue
		}
		i, _ := strconv.Atoi(m[2])
		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				idx = append(idx, indexed{i: i, v: v})
			}
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return idx[a].i < idx[b].i })
	for _, e := range idx {
		out = append(out, e.v)
	}
	return out
}

// readImages loads at most one byte past the size limit per file so the
// service can reject oversize files without buffering them whole.
func readImages(files []*multipart.FileHeader) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, app.MaxImageBytes+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		images = append(images, domain.Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}
