package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
)

type Config struct {
	Host        string `envconfig:"HOST" default:"127.0.0.1"`
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`

	// Persistence
	StoreDriver        string `envconfig:"STORE_DRIVER" default:"file"`
	StorePath          string `envconfig:"STORE_PATH" default:"./data"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`
	RedisAddr          string `envconfig:"REDIS_ADDR"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	RedisDB            int    `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix     string `envconfig:"REDIS_KEY_PREFIX" default:"gameon:"`
	MongoURI           string `envconfig:"MONGO_URI"`
	MongoDatabase      string `envconfig:"MONGO_DATABASE" default:"gameon"`

	// Venue & catalog
	CatalogPath  string `envconfig:"CATALOG_PATH"`
	Timezone     string `envconfig:"TIMEZONE" default:"Local"`
	VenueName    string `envconfig:"VENUE_NAME" default:"Gameon Den"`
	VenueAddress string `envconfig:"VENUE_ADDRESS" default:"103, Old Agraharam St, Vivekananda Nagar, TNHB Mig V Block, Chennai, Avadi, Tamil Nadu 600054"`

	// Sessions
	JWTSecret          string        `envconfig:"JWT_SECRET"`
	JWTSecretResource  string        `envconfig:"JWT_SECRET_RESOURCE"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"0"`
	LoginRatePerMinute int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"0"`

	// Pub/Sub bill events
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubBillTopic    string `envconfig:"PUBSUB_BILL_TOPIC"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// pgmq queue on DB_CONNECTION_STRING, used when Pub/Sub is not configured
	PGMQBillQueue string `envconfig:"PGMQ_BILL_QUEUE"`

	// S3-compatible archive for receipts and exports
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreFile:
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required for the %s store", c.StoreDriver)
		}
	case StorePostgres:
		if c.DBConnectionString == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is required for the %s store", c.StoreDriver)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s store", c.StoreDriver)
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the %s store", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" && c.JWTSecretResource == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_SECRET_RESOURCE must be set")
	}
	if c.JWTSecretResource != "" && !strings.HasPrefix(c.JWTSecretResource, "projects/") {
		return fmt.Errorf("JWT_SECRET_RESOURCE must look like projects/<p>/secrets/<s>/versions/<v>")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.LoginRatePerMinute < 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must not be negative")
	}
	if c.PubSubBillTopic != "" && c.GCPProjectID == "" {
		return fmt.Errorf("GCP_PROJECT_ID is required when PUBSUB_BILL_TOPIC is set")
	}
	if c.PGMQBillQueue != "" && c.DBConnectionString == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required when PGMQ_BILL_QUEUE is set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TIMEZONE; "today" and date filters are evaluated in it.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// PubSubEnabled reports whether bill events should be published.
func (c *Config) PubSubEnabled() bool {
	return c.GCPProjectID != "" && c.PubSubBillTopic != ""
}

// PGMQEnabled reports whether bill events go to a pgmq queue instead. Pub/Sub
// wins when both are configured.
func (c *Config) PGMQEnabled() bool {
	return !c.PubSubEnabled() && c.PGMQBillQueue != ""
}

// ArchiveEnabled reports whether receipts and exports can be archived to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}
