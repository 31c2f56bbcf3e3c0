package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, StoreFile, cfg.StoreDriver)
	assert.Equal(t, "./data", cfg.StorePath)
	assert.Equal(t, "Gameon Den", cfg.VenueName)
	assert.Equal(t, time.Duration(0), cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.PubSubEnabled())
	assert.False(t, cfg.ArchiveEnabled())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", StoreRedis)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("GCP_PROJECT_ID", "gameon-local")
	t.Setenv("PUBSUB_BILL_TOPIC", "bills")
	t.Setenv("S3_BUCKET", "receipts")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://counter.local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.PubSubEnabled())
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, []string{"http://localhost:5173", "http://counter.local"}, cfg.CORSAllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{StoreDriver: StoreMemory, JWTSecret: "x", Timezone: "UTC"}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }},
		{"file without path", func(c *Config) { c.StoreDriver = StoreFile }},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = StorePostgres }},
		{"redis without addr", func(c *Config) { c.StoreDriver = StoreRedis }},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreMongo }},
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
		{"bad secret resource", func(c *Config) { c.JWTSecretResource = "jwt-secret" }},
		{"negative ttl", func(c *Config) { c.SessionTTL = -time.Second }},
		{"negative login rate", func(c *Config) { c.LoginRatePerMinute = -1 }},
		{"topic without project", func(c *Config) { c.PubSubBillTopic = "bills" }},
		{"pgmq without dsn", func(c *Config) { c.PGMQBillQueue = "bill_events" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	c := base()
	c.JWTSecret = ""
	c.JWTSecretResource = "projects/p/secrets/jwt/versions/latest"
	assert.NoError(t, c.Validate())
}

func TestEventBackendSelection(t *testing.T) {
	c := Config{PGMQBillQueue: "bill_events", DBConnectionString: "postgres://localhost/gameon"}
	assert.True(t, c.PGMQEnabled())

	c.GCPProjectID = "proj"
	c.PubSubBillTopic = "bills"
	assert.True(t, c.PubSubEnabled())
	assert.False(t, c.PGMQEnabled())
}
