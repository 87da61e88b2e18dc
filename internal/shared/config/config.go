package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	OAuth     OAuthConfig
	JWT       JWTConfig
	AI        AIConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	TLS       TLSConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	FrontendURL  string
	AllowedHosts []string
}

// Production reports whether cookies must be issued Secure with SameSite=None.
func (s ServerConfig) Production() bool {
	return s.Environment == "production"
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnectAttempts uint64
}

type OAuthConfig struct {
	Google GoogleOAuthConfig
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type JWTConfig struct {
	Secret string
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
}

type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	AuthRPS   float64
	AuthBurst int
	AIRPS     float64
	AIBurst   int
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbAttempts, err := strconv.ParseUint(getEnv("DB_CONNECT_ATTEMPTS", "5"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_ATTEMPTS: %w", err)
	}

	aiTimeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}

	authRPS, err := getFloatEnv("RATE_LIMIT_AUTH_RPS", 1)
	if err != nil {
		return nil, err
	}
	authBurst, err := getIntEnv("RATE_LIMIT_AUTH_BURST", 10)
	if err != nil {
		return nil, err
	}
	aiRPS, err := getFloatEnv("RATE_LIMIT_AI_RPS", 0.2)
	if err != nil {
		return nil, err
	}
	aiBurst, err := getIntEnv("RATE_LIMIT_AI_BURST", 5)
	if err != nil {
		return nil, err
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	callbackURL := getEnv("GOOGLE_CALLBACK_URL", "")
	if callbackURL == "" {
		if hostURL := getEnv("HOST_URL", ""); hostURL != "" {
			callbackURL = strings.TrimRight(hostURL, "/") + "/api/auth/google/callback"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			Host:         getEnv("HOST", "0.0.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			FrontendURL:  strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "moneymind"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			ConnectAttempts: dbAttempts,
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				CallbackURL:  callbackURL,
			},
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		AI: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:      aiTimeout,
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:   authRPS,
			AuthBurst: authBurst,
			AIRPS:     aiRPS,
			AIBurst:   aiBurst,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "moneymind-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Database.ConnectAttempts == 0 {
		return nil, fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

// ConnectionString prefers DATABASE_URL and falls back to the DB_* parts.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
