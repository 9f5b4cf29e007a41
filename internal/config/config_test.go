package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Port != "8080" || cfg.SearchDepth != 8 || cfg.EnginePlayer != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SearchCacheTTL() != 24*time.Hour || cfg.SessionIdleTTL() != time.Hour {
		t.Fatalf("unexpected durations: %v %v", cfg.SearchCacheTTL(), cfg.SessionIdleTTL())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("expected only the local frontend origin, got %v", cfg.AllowedOrigins)
	}
	if AppConfig != cfg {
		t.Fatalf("LoadConfig should publish AppConfig")
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEARCH_DEPTH", "6")
	t.Setenv("ENGINE_PLAYER", "1")
	t.Setenv("FRONTEND_URL", "https://play.example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://play.example.com")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := LoadConfig()

	if cfg.Port != "9090" || cfg.SearchDepth != 6 || cfg.EnginePlayer != 1 || cfg.RedisEnabled {
		t.Fatalf("environment not applied: %+v", cfg)
	}
	want := []string{"https://play.example.com", "http://localhost:5173", "https://a.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("expected origins %v, got %v", want, cfg.AllowedOrigins)
		}
	}
}

func TestLoadConfigReplacesNonsense(t *testing.T) {
	t.Setenv("SEARCH_DEPTH", "0")
	t.Setenv("ENGINE_PLAYER", "3")
	t.Setenv("SESSION_IDLE_TTL_MINUTES", "-5")

	cfg := LoadConfig()

	if cfg.SearchDepth != 8 || cfg.EnginePlayer != 2 || cfg.SessionIdleTTLMinutes != 60 {
		t.Fatalf("invalid values should fall back to defaults: %+v", cfg)
	}
}
