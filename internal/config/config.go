package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"txboard/internal/dataset"
	applog "txboard/internal/log"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

var validBackends = []string{BackendMemory, BackendMongo, BackendSQLite}

type Config struct {
	// HTTP Server
	Port         string
	QueryTimeout time.Duration
	// MaxPerPage bounds list page size; 0 leaves it unbounded
	MaxPerPage int
	// TrustedProxies are extra CIDRs whose forwarded headers are honoured
	TrustedProxies []string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// MongoDB
	MongoURI        string
	MongoDBName     string
	MongoCollection string

	// Dataset
	DatasetURL   string
	FetchTimeout time.Duration

	// View cache; size 0 disables it
	CacheTTL  time.Duration
	CacheSize int

	// AMQP; empty URL disables seed events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel string
}

// fileConfig is the YAML overlay layout. Durations are Go duration strings.
type fileConfig struct {
	Port           string   `yaml:"port"`
	QueryTimeout   string   `yaml:"query_timeout"`
	MaxPerPage     *int     `yaml:"max_per_page"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	DataBackend    string   `yaml:"data_backend"`
	SQLite         struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Mongo struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`
	Dataset struct {
		URL          string `yaml:"url"`
		FetchTimeout string `yaml:"fetch_timeout"`
	} `yaml:"dataset"`
	Cache struct {
		TTL  string `yaml:"ttl"`
		Size *int   `yaml:"size"`
	} `yaml:"cache"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
		Queue    string `yaml:"queue"`
	} `yaml:"amqp"`
	LogLevel string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		QueryTimeout:    7 * time.Second,
		DataBackend:     BackendSQLite,
		SQLiteDBPath:    "./data/txboard.db",
		MongoURI:        "mongodb://localhost:27017",
		MongoDBName:     "transactionsDB",
		MongoCollection: "transactions",
		DatasetURL:      dataset.DefaultURL,
		FetchTimeout:    30 * time.Second,
		CacheTTL:        5 * time.Minute,
		CacheSize:       64,
		AMQPExchange:    "txboard",
		AMQPQueue:       "dataset_events",
		LogLevel:        "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	var errs []string
	setString(&c.Port, fc.Port)
	setString(&c.DataBackend, fc.DataBackend)
	setString(&c.SQLiteDBPath, fc.SQLite.Path)
	setString(&c.MongoURI, fc.Mongo.URI)
	setString(&c.MongoDBName, fc.Mongo.Database)
	setString(&c.MongoCollection, fc.Mongo.Collection)
	setString(&c.DatasetURL, fc.Dataset.URL)
	setString(&c.AMQPURL, fc.AMQP.URL)
	setString(&c.AMQPExchange, fc.AMQP.Exchange)
	setString(&c.AMQPQueue, fc.AMQP.Queue)
	setString(&c.LogLevel, fc.LogLevel)
	if len(fc.TrustedProxies) > 0 {
		c.TrustedProxies = fc.TrustedProxies
	}
	if fc.MaxPerPage != nil {
		c.MaxPerPage = *fc.MaxPerPage
	}
	if fc.Cache.Size != nil {
		c.CacheSize = *fc.Cache.Size
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"query_timeout", fc.QueryTimeout, &c.QueryTimeout},
		{"dataset.fetch_timeout", fc.Dataset.FetchTimeout, &c.FetchTimeout},
		{"cache.ttl", fc.Cache.TTL, &c.CacheTTL},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", d.name, err))
			continue
		}
		*d.dst = v
	}

	if len(errs) > 0 {
		return fmt.Errorf("config file %s:\n- %s", path, strings.Join(errs, "\n- "))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.QueryTimeout = getEnvDuration("QUERY_TIMEOUT", c.QueryTimeout)
	c.MaxPerPage = getEnvInt("MAX_PER_PAGE", c.MaxPerPage)
	c.TrustedProxies = getEnvList("TRUSTED_PROXIES", c.TrustedProxies)
	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDBName = getEnv("MONGO_DB_NAME", c.MongoDBName)
	c.MongoCollection = getEnv("MONGO_COLLECTION", c.MongoCollection)
	c.DatasetURL = getEnv("DATASET_URL", c.DatasetURL)
	c.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", c.FetchTimeout)
	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)
	c.CacheSize = getEnvInt("CACHE_SIZE", c.CacheSize)
	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == BackendMongo {
		if u, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI: %v", err))
		} else if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", u.Scheme))
		}
		if c.MongoDBName == "" {
			errors = append(errors, "Mongo database name cannot be empty when using mongo backend")
		}
		if c.MongoCollection == "" {
			errors = append(errors, "Mongo collection cannot be empty when using mongo backend")
		}
	}

	if u, err := url.Parse(c.DatasetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid dataset URL '%s': must be an absolute http(s) URL", c.DatasetURL))
	}

	if c.FetchTimeout < time.Second || c.FetchTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be between 1s and 10m", c.FetchTimeout))
	}
	if c.QueryTimeout < 100*time.Millisecond || c.QueryTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid query timeout %v: must be between 100ms and 1m", c.QueryTimeout))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	if c.MaxPerPage < 0 {
		errors = append(errors, fmt.Sprintf("invalid max per page %d: must be 0 (unbounded) or positive", c.MaxPerPage))
	}

	if c.CacheSize < 0 || c.CacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be between 0 and 10000", c.CacheSize))
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive when the cache is enabled", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AMQPEnabled reports whether seed events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
