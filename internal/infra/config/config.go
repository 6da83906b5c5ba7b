package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	EmbedderURL     string
	EmbeddingModel  string
	EmbedderTimeout int

	SummarizerEnabled bool
	SummarizerURL     string
	SummarizerModel   string
	SummarizerTimeout int

	NewsSource     string
	NewsAPIBaseURL string
	NewsAPIKey     string
	NewsPageSize   int
	RSSFeeds       []string

	ChunkSize    int
	ChunkOverlap int
	SkipExisting bool

	DigestTopK        int
	DigestWindowHours int
	DigestTopics      []string

	RefreshEnabled         bool
	RefreshIntervalMinutes int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		DBHost:     getEnv("DB_HOST", "digest-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "digest_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "digest_password"),
		DBName:     getEnv("DB_NAME", "digest_db"),

		EmbedderURL:     getEnv("EMBEDDER_URL", "http://localhost:11434"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "all-minilm"),
		EmbedderTimeout: getEnvInt("EMBEDDER_TIMEOUT_SECONDS", 30),

		SummarizerEnabled: getEnvBool("SUMMARIZER_ENABLED", false),
		SummarizerURL:     getEnv("SUMMARIZER_URL", "http://localhost:11434"),
		SummarizerModel:   getEnv("SUMMARIZER_MODEL", "llama3.2"),
		SummarizerTimeout: getEnvInt("SUMMARIZER_TIMEOUT_SECONDS", 60),

		NewsSource:     getEnv("NEWS_SOURCE", "static"),
		NewsAPIBaseURL: getEnv("NEWS_API_BASE_URL", "https://newsapi.org"),
		NewsAPIKey:     getSecret("NEWS_API_KEY", "NEWS_API_KEY_FILE", ""),
		NewsPageSize:   getEnvInt("NEWS_PAGE_SIZE", 5),
		RSSFeeds: getEnvList("RSS_FEEDS", []string{
			"https://feeds.bbci.co.uk/news/rss.xml",
			"https://rss.cnn.com/rss/edition.rss",
		}),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),
		SkipExisting: getEnvBool("SKIP_EXISTING", true),

		DigestTopK:        getEnvInt("DIGEST_TOP_K", 5),
		DigestWindowHours: getEnvInt("DIGEST_WINDOW_HOURS", 24),
		DigestTopics:      getEnvList("DIGEST_TOPICS", []string{"politics", "finance", "technology"}),

		RefreshEnabled:         getEnvBool("REFRESH_ENABLED", false),
		RefreshIntervalMinutes: getEnvInt("REFRESH_INTERVAL_MINUTES", 60),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getSecret reads envKey directly, then falls back to the contents of
// the file named by fileEnvKey (for container secret mounts).
func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
