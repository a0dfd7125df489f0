package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir     string // directory holding the persisted JSON files
	AudioDir    string // directory holding generated audio files
	LinksFile   string // path to the short links JSON file
	MetricsFile string // path to the event metrics JSON file
	EventsFile  string // path to events.yaml (optional, empty = built-in catalog)

	BaseURL        string   // short URL base (ex: https://vox.example.com); empty = derive from request
	AllowedOrigins []string // CORS origins, default "*"

	TTSCommand string // TTS binary resolved on first job (ex: "espeak-ng")
	TTSVoice   string // optional voice passed to the binary
	TTSWorkers int    // synthesis worker pool size (min 2)

	// Redis click telemetry (optional, empty addr = disabled)
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
	ClickMirrorInterval time.Duration
}

func Load() *Config {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	dataDir := getenv("VOX_DATA_DIR", "./data")

	return &Config{
		// Server settings
		ListenPort:      getenv("VOX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VOX_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("VOX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VOX_PRETTY_LOG", true),

		// Persistence
		DataDir:     dataDir,
		AudioDir:    getenv("VOX_AUDIO_DIR", filepath.Join(dataDir, "audio")),
		LinksFile:   getenv("VOX_LINKS_FILE", filepath.Join(dataDir, "short_links.json")),
		MetricsFile: getenv("VOX_METRICS_FILE", filepath.Join(dataDir, "event_metrics.json")),
		EventsFile:  getenv("VOX_EVENTS_FILE", ""),

		// HTTP surface
		BaseURL:        strings.TrimRight(getenv("VOX_BASE_URL", ""), "/"),
		AllowedOrigins: splitAndTrim(getenv("VOX_ALLOWED_ORIGINS", "*")),

		// Synthesis
		TTSCommand: getenv("VOX_TTS_COMMAND", "espeak-ng"),
		TTSVoice:   getenv("VOX_TTS_VOICE", ""),
		TTSWorkers: getenvInt("VOX_TTS_WORKERS", 2),

		// Redis settings
		RedisAddr:           getenv("VOX_REDIS_ADDR", ""),
		RedisPassword:       getenv("VOX_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("VOX_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("VOX_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisConnectTimeout: mustDuration("VOX_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("VOX_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("VOX_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("VOX_REDIS_PING_TIMEOUT", 5*time.Second),
		ClickMirrorInterval: mustDuration("VOX_CLICK_MIRROR_INTERVAL", time.Minute),
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
