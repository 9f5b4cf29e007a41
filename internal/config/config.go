package config

import (
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string   `env:"PORT" env-default:"8080"`
	FrontendURL    string   `env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:","`

	// Engine
	SearchDepth       int    `env:"SEARCH_DEPTH" env-default:"8"`
	EnginePlayer      int    `env:"ENGINE_PLAYER" env-default:"2"`
	DefaultDifficulty string `env:"DEFAULT_DIFFICULTY" env-default:"hard"`

	// Redis search cache
	RedisEnabled          bool   `env:"REDIS_ENABLED" env-default:"true"`
	RedisURL              string `env:"REDIS_URL" env-default:"localhost:6379"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	SearchCacheTTLMinutes int    `env:"SEARCH_CACHE_TTL_MINUTES" env-default:"1440"`

	// Sessions
	SessionIdleTTLMinutes  int `env:"SESSION_IDLE_TTL_MINUTES" env-default:"60"`
	CleanupIntervalMinutes int `env:"CLEANUP_INTERVAL_MINUTES" env-default:"10"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty bool   `env:"LOG_PRETTY" env-default:"false"`
}

var AppConfig *Config

// LoadConfig reads .env (if any) and the process environment. Values that
// do not make sense are replaced by their defaults with a warning.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("[CONFIG] No .env file found")
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Warn().Err(err).Msg("[CONFIG] Could not read environment, using defaults")
		cfg = Defaults()
	}

	cfg.normalize()
	AppConfig = &cfg
	return AppConfig
}

// Defaults is the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                   "8080",
		FrontendURL:            "http://localhost:5173",
		SearchDepth:            8,
		EnginePlayer:           2,
		DefaultDifficulty:      "hard",
		RedisEnabled:           true,
		RedisURL:               "localhost:6379",
		SearchCacheTTLMinutes:  1440,
		SessionIdleTTLMinutes:  60,
		CleanupIntervalMinutes: 10,
		LogLevel:               "info",
	}
}

func (c *Config) normalize() {
	def := Defaults()

	if c.SearchDepth < 1 || c.SearchDepth > 12 {
		log.Warn().Int("value", c.SearchDepth).Int("default", def.SearchDepth).Msg("[CONFIG] Invalid SEARCH_DEPTH, using default")
		c.SearchDepth = def.SearchDepth
	}
	if c.EnginePlayer != 1 && c.EnginePlayer != 2 {
		log.Warn().Int("value", c.EnginePlayer).Msg("[CONFIG] ENGINE_PLAYER must be 1 or 2, using 2")
		c.EnginePlayer = def.EnginePlayer
	}
	if c.SearchCacheTTLMinutes < 0 {
		c.SearchCacheTTLMinutes = def.SearchCacheTTLMinutes
	}
	if c.SessionIdleTTLMinutes <= 0 {
		c.SessionIdleTTLMinutes = def.SessionIdleTTLMinutes
	}
	if c.CleanupIntervalMinutes <= 0 {
		c.CleanupIntervalMinutes = def.CleanupIntervalMinutes
	}

	// Frontend URL + Localhost + CSV values
	origins := []string{c.FrontendURL, "http://localhost:5173"}
	for _, origin := range c.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = dedupe(origins)
}

func (c *Config) SearchCacheTTL() time.Duration {
	return time.Duration(c.SearchCacheTTLMinutes) * time.Minute
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMinutes) * time.Minute
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

// SetupLogging points the global zerolog logger at stderr with the
// configured level.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
