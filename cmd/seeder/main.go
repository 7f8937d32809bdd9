package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/shared"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	owner := flag.String("owner", "seed", "user id recorded as owner of hotels that carry none")
	file := flag.String("file", cfg.SeedFile, "JSON array of hotel documents")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", *file).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatal().Err(err).Msg("seed file must hold a JSON array of objects")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	imp := app.NewImportService(mysqlrepo.New(db), cache)

	workers := cfg.SeedWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, doc := range docs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(i int, doc map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := imp.ImportHotel(ctx, doc, *owner)
			switch {
			case errors.Is(err, app.ErrSkipped):
				observability.ObserveSeed("skipped")
				log.Info().Str("id", h.ID).Msg("already present")
			case err != nil:
				observability.ObserveSeed("failed")
				log.Warn().Int("index", i).Err(err).Msg("import failed")
			default:
				observability.ObserveSeed("ok")
				log.Info().Str("id", h.ID).Str("name", h.Name).Msg("import ok")
			}
		}(i, doc)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
