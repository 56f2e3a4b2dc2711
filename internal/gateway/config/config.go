package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Instagram InstagramConfig
	Gemini    GeminiConfig
	History   HistoryConfig
	Archive   ArchiveConfig

	// SourceTimeout bounds each analyzer source call.
	SourceTimeout time.Duration
}

type InstagramConfig struct {
	AccessToken       string
	BusinessAccountID string
	BaseURL           string
	Limit             int
}

type GeminiConfig struct {
	APIKey string
	Model  string
	RPS    float64
	Burst  int
}

type HistoryConfig struct {
	DSN      string
	FilePath string
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether the archive settings are complete enough to
// reach a bucket.
func (c ArchiveConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:          *port,
		Env:           env,
		Instagram:     loadInstagramConfig(),
		Gemini:        loadGeminiConfig(),
		History:       loadHistoryConfig(),
		Archive:       loadArchiveConfig(env),
		SourceTimeout: envDuration("SOURCE_TIMEOUT", 12*time.Second),
	}, nil
}

func loadInstagramConfig() InstagramConfig {
	return InstagramConfig{
		AccessToken:       strings.TrimSpace(os.Getenv("INSTAGRAM_ACCESS_TOKEN")),
		BusinessAccountID: strings.TrimSpace(os.Getenv("INSTAGRAM_BUSINESS_ACCOUNT_ID")),
		BaseURL:           strings.TrimSpace(os.Getenv("INSTAGRAM_GRAPH_BASE_URL")),
		Limit:             envInt("INSTAGRAM_MEDIA_LIMIT", 50),
	}
}

func loadGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash"),
		RPS:    envFloat("GEMINI_RPS", 0),
		Burst:  envInt("GEMINI_BURST", 1),
	}
}

func loadHistoryConfig() HistoryConfig {
	return HistoryConfig{
		DSN:      strings.TrimSpace(os.Getenv("HISTORY_PG_DSN")),
		FilePath: firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_FILE_PATH")), "tmp/post_outcomes.json"),
	}
}

func loadArchiveConfig(env string) ArchiveConfig {
	endpoint := resolveArchiveEndpoint(env)
	return ArchiveConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "postpulse-reports"),
		UseSSL:    resolveArchiveUseSSL(env),
	}
}

func resolveArchiveEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
}

func resolveArchiveUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
