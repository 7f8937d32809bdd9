package shared

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE", "memory")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("SEED_WORKERS", "oops")
	t.Setenv("JWT_SECRET_KEY", "s")
	t.Setenv("STRIPE_API_KEY", "sk_test")

	c := Load()
	if c.Store != "memory" {
		t.Fatalf("Store = %q", c.Store)
	}
	if c.CacheTTL != time.Minute {
		t.Fatalf("CacheTTL = %s", c.CacheTTL)
	}
	if c.SeedWorkers != 4 {
		t.Fatalf("SeedWorkers = %d, want default 4", c.SeedWorkers)
	}
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.Production() {
		t.Fatalf("dev must not be production")
	}
}
