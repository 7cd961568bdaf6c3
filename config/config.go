package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	LogLevel    string
	// Supabase identity provider
	SupabaseUrl            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string // Admin API access for claim reads/writes
	SupabaseJWTSecret      string // HS256 projects; RS256 projects use JWKS
	JWTAudience            string
	IdentityTimeout        time.Duration
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitVerifyThreshold int
	RateLimitGlobalThreshold int
	// Migrations
	RunMigrations bool
	// CLI / client
	APIBaseURL       string
	GuardMaxAttempts int
}

func LoadConfig() (*Config, error) {
	// .env is optional; production injects real environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Strip trailing slash so joined paths never contain "//auth"
		SupabaseUrl:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", getEnv("SUPABASE_KEY", "")),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		JWTAudience:            getEnv("JWT_AUDIENCE", "authenticated"),
		IdentityTimeout:        getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitVerifyThreshold: getEnvInt("RATE_LIMIT_VERIFY_THRESHOLD", 30),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		APIBaseURL:               strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		GuardMaxAttempts:         getEnvInt("GUARD_MAX_ATTEMPTS", 3),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.SupabaseUrl == "" || cfg.SupabaseServiceRoleKey == "" {
		log.Println("WARNING: SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY missing. Role claims cannot be read.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// FrontendURLs splits FRONTEND_URL, which may list several origins separated by commas.
func (c *Config) FrontendURLs() []string {
	var origins []string
	for _, origin := range strings.Split(c.FrontendURL, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// JWKSURL is the key set endpoint for RS256-signed access tokens.
func (c *Config) JWKSURL() string {
	if c.SupabaseUrl == "" {
		return ""
	}
	return c.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
}

// TokenIssuer is the expected "iss" claim of access tokens.
func (c *Config) TokenIssuer() string {
	if c.SupabaseUrl == "" {
		return ""
	}
	return c.SupabaseUrl + "/auth/v1"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("5s") or plain seconds ("5")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
