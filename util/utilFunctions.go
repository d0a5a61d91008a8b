package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-default:"DEV"`
	Port         string        `yaml:"port" env:"PORT" env-default:"3000"`
	APIURL       string        `yaml:"api_url" env:"API_URL" env-default:"http://localhost:5559"`
	AllowOrigins string        `yaml:"allow_origins" env:"ALLOW_ORIGINS" env-default:"http://localhost:5173"`
	RememberFor  time.Duration `yaml:"remember_for" env:"REMEMBER_FOR" env-default:"720h"`
	SessionIdle  time.Duration `yaml:"session_idle" env:"SESSION_IDLE" env-default:"24h"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	Redis        RedisConfig   `yaml:"redis"`
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	SecretName   string        `yaml:"secret_name" env:"SECRET_NAME"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

func (c *Config) IsDev() bool {
	return c.Env == "DEV"
}

// fetchSecret is swapped out in tests.
var fetchSecret = accessSecretPayload

func accessSecretPayload(ctx context.Context, name string) ([]byte, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, errors.New("couldn't get cloud secret client")
	}
	defer client.Close()
	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access secret version: %w", err)
	}
	return result.Payload.Data, nil
}

// loadEnvironment fills the process environment before the typed config is
// read: a .env file in DEV, a dotenv-formatted Secret Manager payload elsewhere.
// Variables already present in the environment always win.
func loadEnvironment(ctx context.Context) error {
	if env := os.Getenv("ENV"); env == "" || env == "DEV" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("no .env file found, using system environment")
		}
		return nil
	}
	name := os.Getenv("SECRET_NAME")
	if name == "" {
		return nil
	}
	payload, err := fetchSecret(ctx, name)
	if err != nil {
		return err
	}
	values, err := godotenv.Unmarshal(string(payload))
	if err != nil {
		return fmt.Errorf("failed to parse secret payload: %w", err)
	}
	for k, v := range values {
		if _, exists := os.LookupEnv(k); !exists {
			if err := os.Setenv(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func LoadConfig(ctx context.Context) (*Config, error) {
	if err := loadEnvironment(ctx); err != nil {
		return nil, err
	}
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}
