package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL is the session length of a normal login; RememberTTL applies
	// when the client asks to be remembered.
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=2h"`
	RememberTTL time.Duration `env:"REMEMBER_TTL, default=720h"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Collab CollabConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=wenote"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// CollabConfig tunes the real-time collaboration engine.
type CollabConfig struct {
	QueueSize     int           `env:"COLLAB_QUEUE_SIZE,     default=1024"`
	SendBuffer    int           `env:"COLLAB_SEND_BUFFER,    default=64"`
	PruneInterval time.Duration `env:"COLLAB_PRUNE_INTERVAL, default=5m"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
