package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Object store backends selectable through OBJECT_STORE.
const (
	ObjectStoreLocal    = "local"
	ObjectStoreGCS      = "gcs"
	ObjectStoreSupabase = "supabase"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
	GeoIPDBPath      string

	ObjectStore        string
	StoragePath        string
	StorageBaseURL     string
	GCSBucket          string
	GCSPublicBaseURL   string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	GeminiAPIKey        string
	GeminiModelStandard string
	GeminiModelPremium  string

	RedisAddr       string
	CampaignLockTTL time.Duration

	StyleCatalogPath        string
	FreeAnchorRegenerations int
	RegenerationCreditCost  int
	ReferenceMaxBytes       int64

	OTelEnabled     bool
	OTelExporter    string
	OTelServiceName string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),

		HTTPReadTimeout: time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		// a full campaign may hold the connection for five minutes
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 330)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),

		ObjectStore:        strings.ToLower(getEnv("OBJECT_STORE", ObjectStoreLocal)),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/static", port)),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSPublicBaseURL:   os.Getenv("GCS_PUBLIC_BASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "campaign-assets"),

		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModelStandard: getEnv("GEMINI_MODEL_STANDARD", "gemini-2.5-flash-image"),
		GeminiModelPremium:  getEnv("GEMINI_MODEL_PREMIUM", "gemini-3-pro-image-preview"),

		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CampaignLockTTL: time.Second * time.Duration(getEnvInt("CAMPAIGN_LOCK_TTL_SECONDS", 600)),

		StyleCatalogPath:        os.Getenv("STYLE_CATALOG_PATH"),
		FreeAnchorRegenerations: getEnvInt("FREE_ANCHOR_REGENERATIONS", 2),
		RegenerationCreditCost:  getEnvInt("ANCHOR_REGENERATION_CREDIT_COST", 1),
		ReferenceMaxBytes:       int64(getEnvInt("REFERENCE_MAX_BYTES", 20<<20)),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelExporter:    strings.ToLower(getEnv("OTEL_EXPORTER", "stdout")),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "campaignstudio"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.ObjectStore {
	case ObjectStoreLocal:
		if _, err := url.Parse(cfg.StorageBaseURL); err != nil {
			return nil, fmt.Errorf("STORAGE_BASE_URL is invalid: %w", err)
		}
	case ObjectStoreGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required when OBJECT_STORE=gcs")
		}
	case ObjectStoreSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required when OBJECT_STORE=supabase")
		}
	default:
		return nil, fmt.Errorf("unsupported OBJECT_STORE %q", cfg.ObjectStore)
	}

	if cfg.FreeAnchorRegenerations < 0 {
		cfg.FreeAnchorRegenerations = 0
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
