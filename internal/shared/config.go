package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	Store       string // mysql|memory
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JWTSecret   string
	BcryptCost  int
	FrontendURL string

	StripeKey string
	StripeURL string

	CloudinaryBase   string
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	MediaRPS         int

	RabbitURL string

	SeedFile    string
	SeedWorkers int
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		Store:       env("STORE", "mysql"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret:   env("JWT_SECRET_KEY", ""),
		BcryptCost:  atoi("BCRYPT_COST", 8),
		FrontendURL: env("FRONTEND_URL", "http://localhost:5173"),

		StripeKey: env("STRIPE_API_KEY", ""),
		StripeURL: env("STRIPE_API_URL", ""),

		CloudinaryBase:   env("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
		CloudinaryCloud:  env("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    env("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: env("CLOUDINARY_API_SECRET", ""),
		MediaRPS:         atoi("MEDIA_RPS", 5),

		RabbitURL: env("RABBITMQ_URL", ""),

		SeedFile:    env("SEED_FILE", "testdata/hotels.json"),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET_KEY is empty")
	}
	if c.StripeKey == "" {
		log.Warn().Msg("STRIPE_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
