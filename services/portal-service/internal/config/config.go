package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/logger"
)

// OTP store backends.
const (
	OTPStoreMongo = "mongo"
	OTPStoreRedis = "redis"
)

// PortalServiceConfig holds the configuration of the portal service.
type PortalServiceConfig struct {
	Port               string        `env:"PORT"                 envDefault:"5000"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT"    envDefault:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT"   envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AuthRateLimit      float64       `env:"AUTH_RATE_LIMIT"      envDefault:"0"`

	Log      logger.Config
	Mongo    MongoConfig
	Redis    RedisConfig
	Token    TokenConfig
	OTP      OTPConfig
	Executor ExecutorConfig
	Finale   FinaleConfig
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"stranger_things_portal"`
}

// RedisConfig holds the Redis connection used by the redis OTP store.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// TokenConfig holds session token settings.
type TokenConfig struct {
	Secret    string        `env:"JWT_SECRET"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"1h"`
	Issuer    string        `env:"JWT_ISSUER"`
	Audience  string        `env:"JWT_AUDIENCE"`
}

// OTPConfig holds one-time code settings.
type OTPConfig struct {
	Store     string        `env:"OTP_STORE"      envDefault:"mongo"`
	ExpiresIn time.Duration `env:"OTP_EXPIRES_IN" envDefault:"5m"`
	// Grace keeps a lapsed code around long enough to report it as expired.
	Grace time.Duration `env:"OTP_GRACE" envDefault:"10m"`
}

// ExecutorConfig holds the code execution sandbox settings.
type ExecutorConfig struct {
	Enabled bool          `env:"EXECUTOR_ENABLED" envDefault:"true"`
	URL     string        `env:"EXECUTOR_URL"     envDefault:"https://emkc.org/api/v2/piston"`
	Timeout time.Duration `env:"EXECUTOR_TIMEOUT" envDefault:"15s"`
}

// FinaleConfig holds round three settings.
type FinaleConfig struct {
	// FallbackPassword is accepted in addition to the assembled fragments.
	// Empty disables it.
	FallbackPassword string `env:"FINALE_FALLBACK_PASSWORD"`
}

// NewPortalServiceConfig loads an optional .env file and parses the
// environment into a PortalServiceConfig.
func NewPortalServiceConfig() (*PortalServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := env.ParseAs[PortalServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *PortalServiceConfig) validate() error {
	if c.Token.Secret == "" {
		return errors.New("missing JWT_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.OTP.ExpiresIn <= 0 {
		return errors.New("OTP_EXPIRES_IN must be positive")
	}

	c.OTP.Store = strings.ToLower(strings.TrimSpace(c.OTP.Store))
	if c.OTP.Store != OTPStoreMongo && c.OTP.Store != OTPStoreRedis {
		return fmt.Errorf("unsupported OTP_STORE %q", c.OTP.Store)
	}

	if c.Executor.Enabled && c.Executor.URL == "" {
		return errors.New("missing EXECUTOR_URL environment variable")
	}

	return nil
}
