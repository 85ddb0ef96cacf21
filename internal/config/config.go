package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/peterbourgon/ff/v3"
)

// EnvPrefix is prepended to every flag name to form its environment variable,
// e.g. -storage-type is read from LPASTE_STORAGE_TYPE.
const EnvPrefix = "LPASTE"

// Config holds all configuration options for the lpaste server
type Config struct {
	// Server configuration
	Host     string
	HTTPPort int

	// Storage configuration
	StorageType       string // "mongodb", "dynamodb", "sqlite", "s3", "memory"
	MongoDBURI        string
	MongoDBDatabase   string
	MongoDBCollection string
	DynamoDBTable     string
	AWSRegion         string
	SQLitePath        string
	S3Bucket          string
	S3Prefix          string
	StoreTimeout      time.Duration

	// Session configuration
	SessionStore     string // "memory", "redis"
	SessionCookie    string
	SessionTTL       time.Duration
	SessionCacheSize int
	RedisURL         string

	// Presentation
	StaticDir      string
	HighlightStyle string

	// Operational configuration
	LogLevel      string
	LogFormat     string
	EnableMetrics bool
	Debug         bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:              "",
		HTTPPort:          8080,
		StorageType:       "mongodb",
		MongoDBURI:        "mongodb://localhost:27017",
		MongoDBDatabase:   "lpaste_database",
		MongoDBCollection: "items",
		DynamoDBTable:     "lpaste-pastes",
		AWSRegion:         "",
		SQLitePath:        "./lpaste.db",
		StoreTimeout:      10 * time.Second,
		SessionStore:      "memory",
		SessionCookie:     "session_id",
		SessionTTL:        7 * 24 * time.Hour,
		SessionCacheSize:  10000,
		RedisURL:          "redis://localhost:6379/0",
		HighlightStyle:    "pygments",
		LogLevel:          "info",
		LogFormat:         "json",
		EnableMetrics:     true,
	}
}

// Load parses args, environment variables (LPASTE_*) and an optional config
// file given with -config, in that order of precedence.
func Load(args []string, stderr io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("lpaste", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Interface to listen on (empty for all)")
	fs.IntVar(&cfg.HTTPPort, "http-port", cfg.HTTPPort, "HTTP port for the web interface")

	// Storage configuration
	fs.StringVar(&cfg.StorageType, "storage-type", cfg.StorageType, "Storage backend: mongodb, dynamodb, sqlite, s3, memory")
	fs.StringVar(&cfg.MongoDBURI, "mongodb-uri", cfg.MongoDBURI, "MongoDB connection URI")
	fs.StringVar(&cfg.MongoDBDatabase, "mongodb-database", cfg.MongoDBDatabase, "MongoDB database name")
	fs.StringVar(&cfg.MongoDBCollection, "mongodb-collection", cfg.MongoDBCollection, "MongoDB collection name")
	fs.StringVar(&cfg.DynamoDBTable, "dynamodb-table", cfg.DynamoDBTable, "DynamoDB table name")
	fs.StringVar(&cfg.AWSRegion, "aws-region", cfg.AWSRegion, "AWS region (defaults to the SDK's resolution)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket for paste objects")
	fs.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "S3 key prefix for paste objects")
	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", cfg.StoreTimeout, "Timeout for a single storage operation")

	// Session configuration
	fs.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session backend: memory, redis")
	fs.StringVar(&cfg.SessionCookie, "session-cookie", cfg.SessionCookie, "Name of the session cookie")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Lifetime of an idle session")
	fs.IntVar(&cfg.SessionCacheSize, "session-cache-size", cfg.SessionCacheSize, "Maximum sessions kept by the memory session store")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis session store")

	fs.StringVar(&cfg.StaticDir, "static-dir", cfg.StaticDir, "Serve /static from this directory instead of the embedded assets")
	fs.StringVar(&cfg.HighlightStyle, "highlight-style", cfg.HighlightStyle, "Chroma style used for syntax highlighting")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	fs.BoolVar(&cfg.EnableMetrics, "enable-metrics", cfg.EnableMetrics, "Expose prometheus metrics on /metrics")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Run gin in debug mode")

	_ = fs.String("config", "", "Path to a config file (flag-name value per line)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "lpaste - paste and share highlighted code snippets\n\n")
		fmt.Fprintf(stderr, "Usage: lpaste [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(stderr, "  All flags can be set via environment variables with %s_ prefix\n", EnvPrefix)
		fmt.Fprintf(stderr, "  Example: %s_STORAGE_TYPE=sqlite\n", EnvPrefix)
	}

	err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix(EnvPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive: %s", c.StoreTimeout)
	}

	switch c.StorageType {
	case "mongodb":
		if c.MongoDBURI == "" || c.MongoDBDatabase == "" || c.MongoDBCollection == "" {
			return fmt.Errorf("mongodb storage requires uri, database and collection")
		}
	case "dynamodb":
		if c.DynamoDBTable == "" {
			return fmt.Errorf("dynamodb storage requires a table name")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite storage requires a database path")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 storage requires a bucket name")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid storage type: %s (valid: mongodb, dynamodb, sqlite, s3, memory)", c.StorageType)
	}

	switch c.SessionStore {
	case "memory":
		if c.SessionCacheSize < 1 {
			return fmt.Errorf("session cache size must be positive: %d", c.SessionCacheSize)
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis session store requires a redis url")
		}
	default:
		return fmt.Errorf("invalid session store: %s (valid: memory, redis)", c.SessionStore)
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("session cookie name cannot be empty")
	}

	if c.SessionTTL < time.Minute {
		return fmt.Errorf("session ttl must be at least one minute: %s", c.SessionTTL)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.LogFormat)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}
