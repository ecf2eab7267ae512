package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// NodeID distinguishes instances when generating snowflake ids.
	NodeID int64 `env:"NODE_ID,   default=1"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig is the process-wide token configuration, loaded once at startup
// and passed by reference to the token service.
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// AccessTokenTTL is the default access token lifetime (registration and
	// plain login).
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,      default=24h"`
	// RememberMeTTL replaces AccessTokenTTL when a login sets remember_me.
	RememberMeTTL time.Duration `env:"REMEMBER_ME_TOKEN_TTL, default=168h"`
	// GuestTokenTTL bounds guest sessions; it also drives guest-row retention.
	GuestTokenTTL time.Duration `env:"GUEST_TOKEN_TTL,       default=2h"`
	// GuestReapInterval is how often the reaper sweeps expired guest accounts.
	GuestReapInterval time.Duration `env:"GUEST_REAP_INTERVAL, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=restaurant_auth"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
