package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/ocean-hazard-engine/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaEventsTopic string
	KafkaAlertsTopic string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	// Publishing batches.
	BatchSize          int
	BatchFlushInterval time.Duration

	// Forecast refresh loop.
	RefreshInterval time.Duration
	EventsPerHazard int
	HazardTypes     []domain.HazardType
	// RandomSeed fixes the generator seed when RandomSeedSet is true;
	// otherwise every run draws a fresh seed.
	RandomSeed    uint64
	RandomSeedSet bool
}

// LoadEnvFile populates unset environment variables from a dotenv file so a
// local .env can stand in for exported variables. Variables already present in
// the environment win. An empty path means ".env"; a missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	refresh, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_INTERVAL", "5m"))
	if err != nil || refresh <= 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL: must be a positive duration")
	}

	perHazard, err := parseEventsPerHazard()
	if err != nil {
		return nil, err
	}

	hazards, err := parseHazardTypes(os.Getenv("HAZARD_TYPES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaEventsTopic:   sharedcfg.EnvOrDefault("KAFKA_EVENTS_TOPIC", "ocean-hazard-events"),
		KafkaAlertsTopic:   sharedcfg.EnvOrDefault("KAFKA_ALERTS_TOPIC", "ocean-hazard-alerts"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		RefreshInterval:    refresh,
		EventsPerHazard:    perHazard,
		HazardTypes:        hazards,
	}

	if s := os.Getenv("RANDOM_SEED"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.New("invalid RANDOM_SEED: must be an unsigned integer")
		}
		cfg.RandomSeed = seed
		cfg.RandomSeedSet = true
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaEventsTopic == cfg.KafkaAlertsTopic {
		return nil, errors.New("KAFKA_EVENTS_TOPIC and KAFKA_ALERTS_TOPIC must differ")
	}

	return cfg, nil
}

// parseEventsPerHazard reads EVENTS_PER_HAZARD. Default: 5. Range: 1-100.
func parseEventsPerHazard() (int, error) {
	s := os.Getenv("EVENTS_PER_HAZARD")
	if s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return 0, errors.New("invalid EVENTS_PER_HAZARD: must be 1-100")
	}
	return n, nil
}

// parseHazardTypes splits a comma-separated hazard list. Empty means all
// hazard types; duplicates are dropped.
func parseHazardTypes(value string) ([]domain.HazardType, error) {
	if strings.TrimSpace(value) == "" {
		return domain.HazardTypes(), nil
	}
	seen := make(map[domain.HazardType]bool)
	var out []domain.HazardType
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := domain.ParseHazardType(part)
		if err != nil {
			return nil, fmt.Errorf("invalid HAZARD_TYPES: %w", err)
		}
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("invalid HAZARD_TYPES: no hazard types listed")
	}
	return out, nil
}
