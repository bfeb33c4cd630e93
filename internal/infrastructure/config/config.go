package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// MailWorkers sizes the verification-email worker pool.
	MailWorkers int `env:"MAIL_WORKERS, default=4"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Google GoogleConfig
	Mail   MailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GoogleConfig may legitimately be empty: federated login then reports
// itself unconfigured per request instead of blocking startup.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

type MailConfig struct {
	APIURL        string `env:"MAIL_API_URL"`
	APIKey        string `env:"MAIL_API_KEY"`
	From          string `env:"MAIL_FROM,        default=no-reply@tiendafast.com"`
	VerifyBaseURL string `env:"VERIFY_BASE_URL,  default=http://localhost:8080/auth/verify"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
