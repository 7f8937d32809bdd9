package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

// ---- fakes ----

type fakePayments struct {
	mu      sync.Mutex
	intents map[string]domain.PaymentIntent
	seq     int
	created []domain.PaymentIntent
}

func newFakePayments() *fakePayments {
	return &fakePayments{intents: map[string]domain.PaymentIntent{}}
}

func (f *fakePayments) CreateIntent(ctx context.Context, amountCents int64, currency string, md map[string]string) (domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("pi_%d", f.seq)
	pi := domain.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		AmountCents:  amountCents,
		Currency:     currency,
		Status:       "requires_payment_method",
		Metadata:     md,
	}
	f.intents[id] = pi
	f.created = append(f.created, pi)
	return pi, nil
}

func (f *fakePayments) GetIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pi, ok := f.intents[id]
	if !ok {
		return domain.PaymentIntent{}, domain.ErrNotFound
	}
	return pi, nil
}

// succeed marks an intent as paid, as the client-side confirmation would.
func (f *fakePayments) succeed(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pi := f.intents[id]
	pi.Status = domain.PaymentSucceeded
	f.intents[id] = pi
}

func (f *fakePayments) put(pi domain.PaymentIntent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[pi.ID] = pi
}

type fakeEvents struct {
	mu   sync.Mutex
	got  []domain.BookingConfirmed
	fail bool
}

func (f *fakeEvents) PublishBookingConfirmed(ctx context.Context, ev domain.BookingConfirmed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.got = append(f.got, ev)
	return nil
}

type fakeMedia struct {
	mu     sync.Mutex
	calls  int
	failOn string
	delay  map[string]time.Duration
}

func (f *fakeMedia) Upload(ctx context.Context, img domain.Image) (string, error) {
	if d := f.delay[img.Filename]; d > 0 {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if img.Filename == f.failOn {
		return "", errors.New("upload refused")
	}
	return "https://cdn.test/" + img.Filename, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, time.Time, error) {
	return "tok:" + userID, time.Now().Add(24 * time.Hour), nil
}

func (fakeTokens) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "tok:") {
		return "", domain.ErrUnauthorized
	}
	return strings.TrimPrefix(token, "tok:"), nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(h, p string) bool { return h == "h:"+p }

// ---- fixtures ----

func pint(i int) *int { return &i }

func seedHotel(id, owner string, price, stars int, facilities ...string) domain.Hotel {
	return domain.Hotel{
		ID:            id,
		UserID:        owner,
		Name:          "Hotel " + id,
		City:          "Lisbon",
		Country:       "Portugal",
		Description:   "d",
		Type:          "Budget",
		AdultCount:    2,
		ChildCount:    1,
		Facilities:    facilities,
		PricePerNight: price,
		StarRating:    stars,
		ImageURLs:     []string{},
		LastUpdated:   time.Now().UTC(),
	}
}

// sevenHotels is the fixture of the stars/maxPrice scenario: three of them
// have 3 or 5 stars and cost at most 150.
func sevenHotels(store *memory.Store) {
	stars := []int{1, 2, 3, 4, 5, 3, 5}
	prices := []int{100, 120, 140, 160, 90, 200, 150}
	for i := range stars {
		_ = store.CreateHotel(context.Background(),
			seedHotel(fmt.Sprintf("h%d", i+1), "owner", prices[i], stars[i], "Free WiFi"))
	}
}
