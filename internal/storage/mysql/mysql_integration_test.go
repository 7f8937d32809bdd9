//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func pint(i int) *int { return &i }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Skipf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	mustEnv(t, "MIGRATIONS_DIR")

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotels")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_SearchAndBookings(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := repo.CreateUser(ctx, domain.User{ID: "u1", Email: "owner@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.CreateUser(ctx, domain.User{ID: "u2", Email: "owner@example.com", PasswordHash: "y"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("duplicate user: want ErrUserExists, got %v", err)
	}

	stars := []int{1, 2, 3, 4, 5, 3, 5}
	prices := []int{100, 120, 140, 160, 90, 200, 150}
	for i := range stars {
		h := domain.Hotel{
			ID:            fmt.Sprintf("h%d", i+1),
			UserID:        "u1",
			Name:          fmt.Sprintf("Hotel %d", i+1),
			City:          "Lisbon",
			Country:       "Portugal",
			Description:   "d",
			Type:          "Budget",
			AdultCount:    2,
			ChildCount:    0,
			Facilities:    []string{"Free WiFi", "Parking"},
			PricePerNight: prices[i],
			StarRating:    stars[i],
			ImageURLs:     []string{},
			LastUpdated:   now,
		}
		if err := repo.CreateHotel(ctx, h); err != nil {
			t.Fatalf("CreateHotel %s: %v", h.ID, err)
		}
	}

	f := domain.Filter{Stars: []int{3, 5}, MaxPrice: pint(150), Facilities: []string{"Parking"}}
	n, err := repo.Count(ctx, f)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
	hs, err := repo.Search(ctx, domain.SearchQuery{Filter: f, Sort: domain.SortPriceAsc, Page: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hs) != 3 || hs[0].PricePerNight != 90 || hs[2].PricePerNight != 150 {
		t.Fatalf("unexpected search page: %+v", hs)
	}

	b := domain.Booking{
		ID:              "b1",
		UserID:          "u2",
		PaymentIntentID: "pi_1",
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           "ana@example.com",
		AdultCount:      2,
		CheckIn:         now.Add(24 * time.Hour),
		CheckOut:        now.Add(72 * time.Hour),
		TotalCost:       200,
		CreatedAt:       now,
	}
	if err := repo.AppendBooking(ctx, "h1", b); err != nil {
		t.Fatalf("AppendBooking: %v", err)
	}
	b.ID = "b2"
	if err := repo.AppendBooking(ctx, "h1", b); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("reused intent: want ErrConflict, got %v", err)
	}
	b.PaymentIntentID = "pi_2"
	if err := repo.AppendBooking(ctx, "missing", b); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing hotel: want ErrNotFound, got %v", err)
	}

	mine, err := repo.ListBookedBy(ctx, "u2")
	if err != nil {
		t.Fatalf("ListBookedBy: %v", err)
	}
	if len(mine) != 1 || len(mine[0].Bookings) != 1 || mine[0].Bookings[0].PaymentIntentID != "pi_1" {
		t.Fatalf("unexpected bookings view: %+v", mine)
	}
}

func TestRepo_MySQL_ConcurrentAppendsAllSurvive(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.CreateHotel(ctx, domain.Hotel{
		ID: "h1", UserID: "u1", Name: "n", City: "c", Country: "p", Description: "d", Type: "t",
		AdultCount: 1, PricePerNight: 10, StarRating: 3, LastUpdated: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.AppendBooking(ctx, "h1", domain.Booking{
				ID:              fmt.Sprintf("b%d", i),
				UserID:          "u2",
				PaymentIntentID: fmt.Sprintf("pi_%d", i),
				CheckIn:         time.Now().UTC(),
				CheckOut:        time.Now().UTC().Add(24 * time.Hour),
				CreatedAt:       time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AppendBooking: %v", err)
		}
	}

	h, err := repo.GetHotel(ctx, "h1")
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if len(h.Bookings) != workers {
		t.Fatalf("bookings = %d, want %d", len(h.Bookings), workers)
	}
}
