package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local use: with no API_BASE_URL configured the
// stores run against the local fallback backend.
type Config struct {
	AppName string
	Env     string // development, staging, production

	// Remote collaborator
	APIBaseURL  string // empty selects the local fallback backend
	HTTPTimeout time.Duration

	// Durable keyed store
	DataDir       string // sqlite file location for the default store
	RedisAddr     string // non-empty selects the redis-backed keyed store
	RedisPassword string
	RedisDB       int

	// Local fallback sessions
	LocalSessionTTL time.Duration
	// LocalAdminEmails lists accounts the fallback backend registers with
	// the admin role, comma-separated. Stands in for the collaborator's
	// server-side role assignment.
	LocalAdminEmails string

	// Content listing
	DefaultPageLimit int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".folio")
	}
	return ".folio"
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "folio"),
		Env:     getenv("APP_ENV", "development"),

		APIBaseURL:  getenv("API_BASE_URL", ""),
		HTTPTimeout: getdur("HTTP_TIMEOUT", 30*time.Second),

		DataDir:       getenv("DATA_DIR", defaultDataDir()),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		LocalSessionTTL:  getdur("LOCAL_SESSION_TTL", 168*time.Hour),
		LocalAdminEmails: getenv("LOCAL_ADMIN_EMAILS", ""),

		DefaultPageLimit: getint("DEFAULT_PAGE_LIMIT", 10),
	}
}

// AdminEmails returns the fallback admin accounts as a slice.
func (c *Config) AdminEmails() []string {
	parts := strings.Split(c.LocalAdminEmails, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

// StorePath returns the sqlite file backing the default keyed store.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "folio.db")
}

// RemoteConfigured reports whether a REST collaborator is available.
func (c *Config) RemoteConfigured() bool {
	return c.APIBaseURL != ""
}
