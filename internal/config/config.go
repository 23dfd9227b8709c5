package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// Empty URL and dataset fields fall back to the adapter defaults.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NYC GeoSearch geocoding.
	GeosearchEnabled   bool
	GeosearchURL       string
	GeosearchTimeout   time.Duration
	GeosearchCacheSize int

	// NYC Open Data (Socrata) datasets.
	SocrataURL      string
	SocrataAppToken string
	SocrataTimeout  time.Duration
	HPDDataset      string
	PLUTODataset    string
	ViolationLimit  int
	TaxLotLimit     int

	// CallTimeout bounds each collaborator call made during a search.
	CallTimeout time.Duration

	RegistrySource   string
	SessionCacheSize int

	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic string

	// ReportDBPath enables the SQLite report archive when set.
	ReportDBPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first when present; real
// environment variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeosearchURL:    os.Getenv("GEOSEARCH_URL"),
		SocrataURL:      os.Getenv("SOCRATA_URL"),
		SocrataAppToken: os.Getenv("SOCRATA_APP_TOKEN"),
		HPDDataset:      os.Getenv("HPD_DATASET"),
		PLUTODataset:    os.Getenv("PLUTO_DATASET"),
		RegistrySource:  os.Getenv("REGISTRY_SOURCE"),

		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "building-reports"),
		ReportDBPath:     os.Getenv("REPORT_DB_PATH"),
	}

	if cfg.GeosearchEnabled, err = parseBool("GEOSEARCH_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled, err = parseBool("KAFKA_ENABLED", false); err != nil {
		return nil, err
	}

	if cfg.GeosearchTimeout, err = parseDuration("GEOSEARCH_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.SocrataTimeout, err = parseDuration("SOCRATA_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.CallTimeout, err = parseDuration("CALL_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	if cfg.GeosearchCacheSize, err = parseSize("GEOSEARCH_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ViolationLimit, err = parseSize("VIOLATION_LIMIT", 1000); err != nil {
		return nil, err
	}
	if cfg.TaxLotLimit, err = parseSize("TAXLOT_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.SessionCacheSize, err = parseSize("SESSION_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseSize(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", key)
	}
	return b, nil
}
