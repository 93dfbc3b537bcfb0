// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server settings,
// panel (provider) credentials, pricing policy, catalog/session lifetimes,
// rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-smm-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ProviderConfig holds everything needed to talk to the SMM panel.
type ProviderConfig struct {
	Name        string        // PROVIDER_NAME, slug stored on order rows
	APIURL      string        // PROVIDER_API_URL, catalog/order/status endpoint
	ProfileURL  string        // PROVIDER_PROFILE_URL, account profile endpoint
	APIKey      string        // PROVIDER_API_KEY, required
	Timeout     time.Duration // PROVIDER_TIMEOUT, per HTTP call
	MaxAttempts int           // PROVIDER_MAX_ATTEMPTS, transport retries cap
}

// PricingConfig holds the process-wide markup policy, fixed at startup.
type PricingConfig struct {
	SellerMarkupPercent    float64 // SELLER_MARKUP_PERCENT
	NonSellerMarkupPercent float64 // NONSELLER_MARKUP_PERCENT
	PricePerThousand       bool    // PRICE_PER_1000: rates are per 1000 units
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 40s; a confirm spanning several panel retries may be cut off, settlement still completes
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Database
	DBDriver string // sqlite|postgres
	DBPath   string // SQLite file path (DBDriver=sqlite)
	DBDSN    string // Postgres DSN (DBDriver=postgres)

	// Panel
	Provider ProviderConfig

	// Pricing
	Pricing PricingConfig

	// Catalog / sessions / cooldown
	CatalogTTL time.Duration // how long a catalog snapshot stays fresh
	SessionTTL time.Duration // idle bound before an abandoned session is swept
	Cooldown   time.Duration // min gap between a user's order-triggering actions (0 disables)

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Admin surface
	AdminToken string // ADMIN_API_TOKEN; empty disables all /admin routes

	// Idempotency
	IdempotencyTTL time.Duration // how long a credit receipt answers replays

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 40*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Database
		DBDriver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBPath:   getenv("DB_PATH", "smm.db"),
		DBDSN:    getenv("DB_DSN", ""),

		// Panel
		Provider: ProviderConfig{
			Name:        getenv("PROVIDER_NAME", "zaynflazz"),
			APIURL:      getenv("PROVIDER_API_URL", "https://zaynflazz.com/api/sosial-media"),
			ProfileURL:  getenv("PROVIDER_PROFILE_URL", "https://zaynflazz.com/api/profile"),
			APIKey:      strings.TrimSpace(getenv("PROVIDER_API_KEY", "")),
			Timeout:     getdur("PROVIDER_TIMEOUT", 25*time.Second),
			MaxAttempts: getint("PROVIDER_MAX_ATTEMPTS", 4),
		},

		// Pricing
		Pricing: PricingConfig{
			SellerMarkupPercent:    getfloat("SELLER_MARKUP_PERCENT", 10),
			NonSellerMarkupPercent: getfloat("NONSELLER_MARKUP_PERCENT", 15),
			PricePerThousand:       getbool("PRICE_PER_1000", true),
		},

		// Catalog / sessions / cooldown
		CatalogTTL: getdur("SERVICES_CACHE_TTL", 5*time.Minute),
		SessionTTL: getdur("SESSION_TTL", 30*time.Minute),
		Cooldown:   getdur("COOLDOWN", 2*time.Second),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Admin
		AdminToken: strings.TrimSpace(getenv("ADMIN_API_TOKEN", "")),

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-smm-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return cfg, errors.New("DB_DSN must not be empty when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be sqlite or postgres")
	}
	if cfg.Provider.APIKey == "" {
		return cfg, errors.New("PROVIDER_API_KEY must not be empty")
	}
	if strings.TrimSpace(cfg.Provider.APIURL) == "" {
		return cfg, errors.New("PROVIDER_API_URL must not be empty")
	}
	if cfg.Provider.Timeout <= 0 {
		return cfg, errors.New("PROVIDER_TIMEOUT must be > 0")
	}
	if cfg.Provider.MaxAttempts < 1 {
		return cfg, errors.New("PROVIDER_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Pricing.SellerMarkupPercent < 0 || cfg.Pricing.NonSellerMarkupPercent < 0 {
		return cfg, errors.New("markup percentages must be >= 0")
	}
	if cfg.CatalogTTL <= 0 {
		return cfg, errors.New("SERVICES_CACHE_TTL must be > 0")
	}
	if cfg.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if cfg.Cooldown < 0 {
		return cfg, errors.New("COOLDOWN must be >= 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
