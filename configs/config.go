package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

// S3 describes an S3 compatible bucket (AWS, R2, MinIO).
type S3 struct {
	Endpoint   string `env:"S3_ENDPOINT"`
	Region     string `env:"S3_REGION" envDefault:"auto"`
	AccessKey  string `env:"S3_ACCESS_KEY"`
	SecretKey  string `env:"S3_SECRET_KEY"`
	BucketName string `env:"S3_BUCKET" envDefault:"filestorage"`
	PublicURL  string `env:"S3_PUBLIC_URL"`
}

type Config struct {
	Port             string `env:"PORT" envDefault:"3000"`
	PostgresURI      string `env:"POSTGRES_URI,required"`
	RedisURI         string `env:"REDIS_URI" envDefault:"localhost:6379"`
	SecretKey        string `env:"JWT_SECRET,required"`
	CookieName       string `env:"COOKIE_NAME" envDefault:"session"`
	FrontendURL      string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	LLMProvider      string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMModel         string `env:"LLM_MODEL"`
	OpenAIKey        string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	GeminiKey        string `env:"GEMINI_API_KEY"`
	Timezone         string `env:"TIMEZONE" envDefault:"UTC"`
	Migrations       bool   `env:"MIGRATIONS" envDefault:"true"`
	QueueConcurrency int    `env:"QUEUE_CONCURRENCY" envDefault:"10"`
	BodyLimitMB      int    `env:"BODY_LIMIT_MB" envDefault:"100"`

	S3 S3
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg.S3); err != nil {
		return nil, fmt.Errorf("failed to parse s3 config: %w", err)
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiKey
	}
	return c.OpenAIKey
}
