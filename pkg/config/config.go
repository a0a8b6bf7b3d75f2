package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"SemiDash/internal/domain/models"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RefreshRPS      float64       `yaml:"refresh_rps" default:"0.2"`
		RefreshBurst    int           `yaml:"refresh_burst" default:"2"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl" default:"24h"`
		Backend       string        `yaml:"backend" default:"file"`
		Dir           string        `yaml:"dir" default:".cache"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"64"`
		Redis         struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"semidash"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Yahoo struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout" default:"20s"`
		RPS          float64       `yaml:"rps" default:"4"`
		UserAgent    string        `yaml:"user_agent"`
		HistoryYears int           `yaml:"history_years" default:"5"`
	} `yaml:"yahoo"`
	Dart struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout" default:"20s"`
		RPS     float64       `yaml:"rps" default:"5"`
	} `yaml:"dart"`
	Aggregation struct {
		MaxConcurrency int    `yaml:"max_concurrency" default:"8"`
		FilingYears    int    `yaml:"filing_years" default:"3"`
		FxWindowDays   int    `yaml:"fx_window_days" default:"10"`
		CommonCurrency string `yaml:"common_currency" default:"KRW"`
	} `yaml:"aggregation"`
	StaticMetrics struct {
		Path string `yaml:"path"`
	} `yaml:"static_metrics"`
	Kafka struct {
		Brokers     []string `yaml:"brokers"`
		Topic       string   `yaml:"topic" default:"semidash.snapshots"`
		Compression string   `yaml:"compression" default:"gzip"`
	} `yaml:"kafka"`
	Warmer struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron" default:"0 */6 * * *"`
	} `yaml:"warmer"`
	Cohorts map[string][]models.EntityDefinition `yaml:"cohorts"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes raw YAML, fills defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := decode(b)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DART_API_KEY"); v != "" {
		c.Dart.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = "redis"
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend != "file" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'file' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Aggregation.MaxConcurrency <= 0 {
		return fmt.Errorf("aggregation.max_concurrency must be positive")
	}
	if len(c.Cohorts) == 0 {
		return fmt.Errorf("cohorts cannot be empty")
	}

	needsDart := false
	for cohort, roster := range c.Cohorts {
		if !knownCohort(cohort) {
			return fmt.Errorf("unknown cohort '%s'", cohort)
		}
		if len(roster) == 0 {
			return fmt.Errorf("cohort '%s' has no entities", cohort)
		}
		seen := make(map[string]struct{}, len(roster))
		for i, e := range roster {
			if e.ID == "" {
				return fmt.Errorf("cohorts.%s[%d]: id is required", cohort, i)
			}
			if _, dup := seen[e.ID]; dup {
				return fmt.Errorf("cohorts.%s: duplicate id '%s'", cohort, e.ID)
			}
			seen[e.ID] = struct{}{}
			if e.Currency == "" {
				return fmt.Errorf("cohorts.%s.%s: currency is required", cohort, e.ID)
			}
			switch e.Source {
			case models.SourceMarket:
				if e.Symbol == "" {
					return fmt.Errorf("cohorts.%s.%s: symbol is required", cohort, e.ID)
				}
			case models.SourceFiling:
				if e.CorpCode == "" {
					return fmt.Errorf("cohorts.%s.%s: corp_code is required", cohort, e.ID)
				}
				needsDart = true
			default:
				return fmt.Errorf("cohorts.%s.%s: source must be 'market' or 'filing', got '%s'", cohort, e.ID, e.Source)
			}
		}
	}
	if needsDart && c.Dart.APIKey == "" {
		return fmt.Errorf("dart.api_key is required for filing entities")
	}
	return nil
}

// CohortIDs returns the configured cohorts in display order.
func (c *Config) CohortIDs() []string {
	var out []string
	for _, id := range models.Cohorts {
		if _, ok := c.Cohorts[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func knownCohort(id string) bool {
	for _, c := range models.Cohorts {
		if c == id {
			return true
		}
	}
	return false
}
