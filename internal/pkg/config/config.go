package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const insecureDevSecret = "dev-only-insecure-secret"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Admin  AdminConfig
	HTTP   HTTPConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Resets ResetConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	HashSalt         string        `env:"HASH_SALT,          default=SomeRandomStringHere"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	CookieName       string        `env:"COOKIE_NAME,        default=session_token"`
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=720h"`
	LoginRedirectURL string        `env:"LOGIN_REDIRECT_URL, default=/check"`
}

// AdminConfig seeds an administrator at startup when both fields are set.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type HTTPConfig struct {
	AllowOrigins    []string      `env:"CORS_ALLOW_ORIGINS, default=http://localhost:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,   default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=staff_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type ResetConfig struct {
	Workers int `env:"RESET_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config: JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = insecureDevSecret
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	if c.Auth.CookieName == "" {
		return errors.New("config: COOKIE_NAME must not be empty")
	}
	return nil
}
