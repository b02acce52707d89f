package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development".
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		// A missing .env is fine, the process environment is used as-is
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Auth
	JWT_SECRET       string
	JWT_ISSUER       string
	GOOGLE_CLIENT_ID string
	ADMIN_EMAILS     []string
	ALLOWED_ORIGINS  string
	// Redis
	REDIS_URL string
	// Generative model (OpenAI-compatible chat completions)
	AI_ENABLED  bool
	AI_API_KEY  string
	AI_BASE_URL string
	AI_MODEL    string
	// News providers
	NEWS_API_KEY       string
	GNEWS_API_KEY      string
	NEWSDATA_API_KEY   string
	NEWS_CACHE_VERSION string
	NEWS_CACHE_TTL     time.Duration
	// Jobs & behaviour
	CRON_ENABLED               bool
	PROGRESS_SEQUENTIAL_GATING bool
}

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	cacheTTL, err := time.ParseDuration(os.Getenv("NEWS_CACHE_TTL"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOr("DB_HOST", "localhost"),
		DB_PORT:      getOr("DB_PORT", "5432"),
		DB_SSL_MODE:  getOr("DB_SSL_MODE", "disable"),
		PORT:         port,
		// Auth
		JWT_SECRET:       os.Getenv("JWT_SECRET"),
		JWT_ISSUER:       getOr("JWT_ISSUER", "skills-lab-api"),
		GOOGLE_CLIENT_ID: os.Getenv("GOOGLE_CLIENT_ID"),
		ADMIN_EMAILS:     splitList(os.Getenv("ADMIN_EMAILS")),
		ALLOWED_ORIGINS:  getOr("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
		// Redis
		REDIS_URL: getOr("REDIS_URL", "redis://localhost:6379/0"),
		// Generative model
		AI_ENABLED:  getBool("AI_ENABLED", true),
		AI_API_KEY:  os.Getenv("AI_API_KEY"),
		AI_BASE_URL: os.Getenv("AI_BASE_URL"),
		AI_MODEL:    os.Getenv("AI_MODEL"),
		// News
		NEWS_API_KEY:       os.Getenv("NEWS_API_KEY"),
		GNEWS_API_KEY:      os.Getenv("GNEWS_API_KEY"),
		NEWSDATA_API_KEY:   os.Getenv("NEWSDATA_API_KEY"),
		NEWS_CACHE_VERSION: getOr("NEWS_CACHE_VERSION", "v7"),
		NEWS_CACHE_TTL:     cacheTTL,
		// Jobs
		CRON_ENABLED:               getBool("CRON_ENABLED", true),
		PROGRESS_SEQUENTIAL_GATING: getBool("PROGRESS_SEQUENTIAL_GATING", false),
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV is "production".
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

// IsAdminEmail reports whether email is one of ADMIN_EMAILS, ignoring case.
func (e *EnvironmentVariable) IsAdminEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, admin := range e.ADMIN_EMAILS {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func getOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
