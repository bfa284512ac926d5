package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultTargetsFile = "config/targets.yaml"

// TargetsFile is the YAML document listing export targets, e.g.
//
//	targets:
//	  - user:octocat
//	  - pulls:rails/rails
type TargetsFile struct {
	Targets []string `yaml:"targets"`
}

// Forge holds the settings needed to talk to the forge API and nothing else.
type Forge struct {
	BaseURL      string
	HTTPTimeout  time.Duration
	UserAgent    string
	StrictAccept bool
}

// LoadForge reads only the forge API settings. Unlike Load it never touches the
// targets file, so it is safe for one-shot commands run from any directory.
func LoadForge() Forge {
	_ = godotenv.Load()
	return Forge{
		BaseURL:      getEnv("FORGE_BASE_URL", "https://api.github.com"),
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 10*time.Second),
		UserAgent:    getEnv("FORGE_USER_AGENT", "forge-client"),
		StrictAccept: getBoolEnv("FORGE_STRICT_ACCEPT", true),
	}
}

type Config struct {
	BaseURL         string
	HTTPTimeout     time.Duration
	UserAgent       string
	StrictAccept    bool
	BreakerEnabled  bool
	BreakerFailures int
	ServerPort      string
	PollInterval    time.Duration
	WorkerPoolSize  int
	Targets         []string
	TargetsFilePath string
	MongoURI        string
	MongoDBName     string
	MongoColl       string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaDLQTopic   string
	OTelEnabled     bool
}

func Load() *Config {
	forge := LoadForge()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "kafka:29092"
	}

	cfg := &Config{
		BaseURL:         forge.BaseURL,
		HTTPTimeout:     forge.HTTPTimeout,
		UserAgent:       forge.UserAgent,
		StrictAccept:    forge.StrictAccept,
		BreakerEnabled:  getBoolEnv("CIRCUIT_BREAKER_ENABLED", false),
		BreakerFailures: getIntEnv("CIRCUIT_BREAKER_FAILURES", 3),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		PollInterval:    getDurationEnv("POLL_INTERVAL", 5*time.Minute),
		WorkerPoolSize:  getIntEnv("WORKER_POOL_SIZE", 2),
		MongoURI:        getEnv("MONGO_URI", "mongodb://mongodb:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "forge"),
		MongoColl:       getEnv("MONGO_COLLECTION", "records"),
		KafkaBrokers:    strings.Split(brokers, ","),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "forge_records"),
		KafkaDLQTopic:   getEnv("KAFKA_DLQ_TOPIC", "forge_records_dlq"),
		TargetsFilePath: getEnv("TARGETS_FILE_PATH", defaultTargetsFile),
		OTelEnabled:     getBoolEnv("OTEL_ENABLED", false),
	}

	if raw := os.Getenv("EXPORT_TARGETS"); raw != "" {
		cfg.Targets = splitList(raw)
	} else {
		cfg.Targets = loadTargets(cfg.TargetsFilePath)
	}
	return cfg
}

func loadTargets(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Could not read targets file, using default targets", "path", path, "error", err)
		return []string{"user:octocat", "repos:octocat"}
	}
	targets, err := ParseTargets(data)
	if err != nil {
		slog.Error("Error decoding targets file", "path", path, "error", err)
		return nil
	}
	return targets
}

// ParseTargets decodes a TargetsFile and returns its non-empty entries.
func ParseTargets(data []byte) ([]string, error) {
	var file TargetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(file.Targets))
	for _, t := range file.Targets {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
