package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	Environment     string
	Domain          string
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	SeedDemoData  bool

	RedisAddr        string
	RedisPassword    string
	ReportLimitQueue string
	ReportDailyLimit int

	EnforceServiceArea bool
	HazardRadiusMeters float64

	OSRMBaseURL      string
	NominatimBaseURL string
	UpstreamTimeout  time.Duration
	GeocodeCacheSize int
	UserAgent        string

	KafkaBrokers      []string
	KafkaReportsTopic string
}

// IsProduction reports whether cookies should be issued as Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	tokenTTL, err := parseDuration("TOKEN_TTL", "72h")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	dailyLimit, err := parsePositiveInt("REPORT_DAILY_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	radius, err := strconv.ParseFloat(envOrDefault("HAZARD_RADIUS_METERS", "150"), 64)
	if err != nil || radius <= 0 {
		return nil, errors.New("invalid HAZARD_RADIUS_METERS")
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		Environment:     envOrDefault("GO_ENV", "development"),
		Domain:          os.Getenv("DOMAIN"),
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  tokenTTL,

		StoreDriver:   envOrDefault("STORE_DRIVER", "mongo"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: envOrDefault("MONGODB_DATABASE", "smartroad"),
		SeedDemoData:  parseBool("SEED_DEMO_DATA", true),

		RedisAddr:        os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		ReportLimitQueue: envOrDefault("REDIS_QUEUE_FOR_REPORT_LIMIT", "report_limit"),
		ReportDailyLimit: dailyLimit,

		EnforceServiceArea: parseBool("ENFORCE_SERVICE_AREA", true),
		HazardRadiusMeters: radius,

		OSRMBaseURL:      strings.TrimRight(envOrDefault("OSRM_BASE_URL", "https://router.project-osrm.org"), "/"),
		NominatimBaseURL: strings.TrimRight(envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"), "/"),
		UpstreamTimeout:  upstreamTimeout,
		GeocodeCacheSize: cacheSize,
		UserAgent:        envOrDefault("UPSTREAM_USER_AGENT", "smartroad-be/1.0"),

		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaReportsTopic: envOrDefault("KAFKA_REPORTS_TOPIC", "road-reports"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.StoreDriver {
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("MONGODB_URI is required when STORE_DRIVER is mongo")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
