package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

// ImportService bulk-loads hotels from loosely shaped seed payloads.
type ImportService struct {
	repo  domain.HotelRepository
	cache domain.Cache
	now   func() time.Time
}

func NewImportService(r domain.HotelRepository, cache domain.Cache) *ImportService {
	return &ImportService{repo: r, cache: cache, now: time.Now}
}

// ErrSkipped marks a payload that was not imported because it already exists.
var ErrSkipped = errors.New("hotel already imported")

// ImportHotel maps, validates and stores one payload. Hotels without an owner
// are attributed to ownerID.
func (s *ImportService) ImportHotel(ctx context.Context, raw map[string]any, ownerID string) (domain.Hotel, error) {
	h := mapHotel(raw)
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.UserID == "" {
		h.UserID = ownerID
	}
	if h.LastUpdated.IsZero() {
		h.LastUpdated = s.now().UTC()
	}
	if err := Validate(inputOf(h)); err != nil {
		return domain.Hotel{}, fmt.Errorf("hotel %s: %w", h.ID, err)
	}

	if err := s.repo.CreateHotel(ctx, h); err != nil {
		// A re-run of the seeder hits ids it already wrote; that is not a failure.
		if errors.Is(err, domain.ErrConflict) {
			return h, ErrSkipped
		}
		return domain.Hotel{}, fmt.Errorf("store hotel %s: %w", h.ID, err)
	}

	// New hotel changes every listing.
	invalidateHotel(ctx, s.cache, h.ID)
	return h, nil
}
