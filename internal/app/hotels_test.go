package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func validInput() app.HotelInput {
	return app.HotelInput{
		Name:          "Sea View",
		City:          "Faro",
		Country:       "Portugal",
		Description:   "By the beach.",
		Type:          "Family",
		AdultCount:    2,
		ChildCount:    2,
		PricePerNight: 120,
		StarRating:    4,
		Facilities:    []string{"Parking"},
	}
}

func TestHotelService_CreateUploadsInOrder(t *testing.T) {
	store := memory.New()
	// the first image finishes last; order must still follow the input
	m := &fakeMedia{delay: map[string]time.Duration{"a.jpg": 30 * time.Millisecond}}
	svc := app.NewHotelService(store, m, nil)

	h, err := svc.Create(context.Background(), "owner", validInput(), []domain.Image{
		{Filename: "a.jpg", Data: []byte("a")},
		{Filename: "b.jpg", Data: []byte("b")},
		{Filename: "c.jpg", Data: []byte("c")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg", "https://cdn.test/c.jpg"}, h.ImageURLs)
	assert.Equal(t, "owner", h.UserID)
	assert.NotEmpty(t, h.ID)

	mine, err := svc.ListMine(context.Background(), "owner")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestHotelService_UploadFailureStoresNothing(t *testing.T) {
	store := memory.New()
	svc := app.NewHotelService(store, &fakeMedia{failOn: "bad.jpg"}, nil)

	_, err := svc.Create(context.Background(), "owner", validInput(), []domain.Image{
		{Filename: "ok.jpg", Data: []byte("x")},
		{Filename: "bad.jpg", Data: []byte("y")},
	})
	require.Error(t, err)

	mine, _ := svc.ListMine(context.Background(), "owner")
	assert.Empty(t, mine)
}

func TestHotelService_ValidationListsEveryField(t *testing.T) {
	svc := app.NewHotelService(memory.New(), &fakeMedia{}, nil)
	in := validInput()
	in.Name = ""
	in.StarRating = 9
	in.Facilities = nil

	images := make([]domain.Image, app.MaxImages+1)
	for i := range images {
		images[i] = domain.Image{Filename: "x.jpg", Data: []byte("x")}
	}
	_, err := svc.Create(context.Background(), "owner", in, images)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "starRating", "facilities", "imageFiles"} {
		assert.True(t, fields[want], "missing %s in %v", want, verr.Fields)
	}
}

func TestHotelService_RejectsOversizeImage(t *testing.T) {
	m := &fakeMedia{}
	svc := app.NewHotelService(memory.New(), m, nil)
	_, err := svc.Create(context.Background(), "owner", validInput(), []domain.Image{
		{Filename: "big.jpg", Data: make([]byte, app.MaxImageBytes+1)},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Zero(t, m.calls)
}

func TestHotelService_UpdatePrependsNewImages(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	h := seedHotel("h1", "owner", 100, 3, "Spa")
	h.ImageURLs = []string{"https://cdn.test/old1.jpg", "https://cdn.test/old2.jpg"}
	require.NoError(t, store.CreateHotel(ctx, h))
	require.NoError(t, store.AppendBooking(ctx, "h1", domain.Booking{ID: "b1", UserID: "g", PaymentIntentID: "pi_1"}))
	svc := app.NewHotelService(store, &fakeMedia{}, nil)

	in := validInput()
	in.ImageURLs = []string{"https://cdn.test/old2.jpg"}
	out, err := svc.Update(ctx, "owner", "h1", in, []domain.Image{{Filename: "new.jpg", Data: []byte("n")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/new.jpg", "https://cdn.test/old2.jpg"}, out.ImageURLs)
	assert.Equal(t, "Sea View", out.Name)
	assert.Len(t, out.Bookings, 1, "an update never drops bookings")
}

func TestHotelService_OwnerOnly(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.CreateHotel(ctx, seedHotel("h1", "owner", 100, 3, "Spa")))
	svc := app.NewHotelService(store, &fakeMedia{}, nil)

	_, err := svc.Update(ctx, "intruder", "h1", validInput(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetMine(ctx, "intruder", "h1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h, err := store.GetHotel(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Hotel h1", h.Name)
}
