package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

const (
	MaxImages     = 6
	MaxImageBytes = 5 << 20
)

type HotelInput struct {
	Name          string   `json:"name" validate:"required"`
	City          string   `json:"city" validate:"required"`
	Country       string   `json:"country" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Type          string   `json:"type" validate:"required"`
	AdultCount    int      `json:"adultCount" validate:"min=1"`
	ChildCount    int      `json:"childCount" validate:"min=0"`
	PricePerNight int      `json:"pricePerNight" validate:"min=0"`
	StarRating    int      `json:"starRating" validate:"min=1,max=5"`
	Facilities    []string `json:"facilities" validate:"min=1,dive,required"`
	// ImageURLs are the already-hosted images an update keeps.
	ImageURLs []string `json:"imageUrls"`
}

type HotelService struct {
	repo  domain.HotelRepository
	media domain.MediaUploader
	cache domain.Cache
	now   func() time.Time
}

func NewHotelService(r domain.HotelRepository, m domain.MediaUploader, c domain.Cache) *HotelService {
	return &HotelService{repo: r, media: m, cache: c, now: time.Now}
}

func (s *HotelService) Create(ctx context.Context, userID string, in HotelInput, images []domain.Image) (domain.Hotel, error) {
	if err := validateHotel(in, images); err != nil {
		return domain.Hotel{}, err
	}
	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return domain.Hotel{}, err
	}
	h := in.apply(domain.Hotel{ID: uuid.NewString(), UserID: userID, Bookings: []domain.Booking{}})
	h.ImageURLs = urls
	h.LastUpdated = s.now().UTC()
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	invalidateHotel(ctx, s.cache, h.ID)
	return h, nil
}

// Update rewrites an owned hotel. Newly uploaded images go before the
// retained ones.
func (s *HotelService) Update(ctx context.Context, userID, hotelID string, in HotelInput, images []domain.Image) (domain.Hotel, error) {
	if err := validateHotel(in, images); err != nil {
		return domain.Hotel{}, err
	}
	cur, err := s.repo.GetOwnedHotel(ctx, hotelID, userID)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("load hotel %s: %w", hotelID, err)
	}
	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return domain.Hotel{}, err
	}
	h := in.apply(cur)
	h.ImageURLs = append(urls, in.ImageURLs...)
	h.LastUpdated = s.now().UTC()
	out, err := s.repo.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("update hotel %s: %w", hotelID, err)
	}
	invalidateHotel(ctx, s.cache, hotelID)
	return out, nil
}

func (s *HotelService) ListMine(ctx context.Context, userID string) ([]domain.Hotel, error) {
	hs, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list hotels of %s: %w", userID, err)
	}
	if hs == nil {
		hs = []domain.Hotel{}
	}
	return hs, nil
}

func (s *HotelService) GetMine(ctx context.Context, userID, hotelID string) (domain.Hotel, error) {
	return s.repo.GetOwnedHotel(ctx, hotelID, userID)
}

// uploadImages sends all images concurrently and keeps their input order.
// The first failure cancels the rest.
func (s *HotelService) uploadImages(ctx context.Context, images []domain.Image) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			u, err := s.media.Upload(gctx, img)
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Filename, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (in HotelInput) apply(h domain.Hotel) domain.Hotel {
	h.Name = in.Name
	h.City = in.City
	h.Country = in.Country
	h.Description = in.Description
	h.Type = in.Type
	h.AdultCount = in.AdultCount
	h.ChildCount = in.ChildCount
	h.PricePerNight = in.PricePerNight
	h.StarRating = in.StarRating
	h.Facilities = in.Facilities
	return h
}

func validateHotel(in HotelInput, images []domain.Image) error {
	err := Validate(in)
	verr, _ := err.(*domain.ValidationError)
	if err != nil && verr == nil {
		return err
	}
	if verr == nil {
		verr = &domain.ValidationError{}
	}
	if len(images) > MaxImages {
		verr.Add("imageFiles", fmt.Sprintf("at most %d images are allowed", MaxImages))
	}
	for _, img := range images {
		if len(img.Data) > MaxImageBytes {
			verr.Add("imageFiles", img.Filename+" exceeds 5MB")
		}
	}
	return verr.OrNil()
}
