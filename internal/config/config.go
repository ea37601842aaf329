package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	SessionSecret string
	SessionTTL    time.Duration
	// SessionStore selects where sessions live: "postgres" or "redis".
	SessionStore  string
	RedisAddr     string
	RedisPassword string

	// OAuthSuccessURL is where the browser lands after a completed provider
	// login. In development it usually points at a separate frontend origin.
	OAuthSuccessURL string
	BaseURL         string

	Google OAuthConfig
	GitHub OAuthConfig
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		sessionTTL = 24 * time.Hour
	}

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionSecret: getEnvOrPanic("SESSION_SECRET"),
		SessionTTL:    sessionTTL,
		SessionStore:  getEnv("SESSION_STORE", "postgres"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OAuthSuccessURL: getEnv("OAUTH_SUCCESS_URL", "/"),
		BaseURL:         baseURL,

		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", baseURL+"/login/oauth2/code/google"),
		},
		GitHub: OAuthConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GITHUB_REDIRECT_URL", baseURL+"/login/oauth2/code/github"),
		},
	}, nil
}

// LoadDatabaseURL reads only DATABASE_URL, for tools that never serve
// requests and so have no session secret.
func LoadDatabaseURL() string {
	_ = godotenv.Load()
	return getEnv("DATABASE_URL", "")
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
