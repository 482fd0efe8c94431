package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP    HTTPConfig    `yaml:"http"`
	Session SessionConfig `yaml:"session"`
	Catalog CatalogConfig `yaml:"catalog"`
	MongoDB MongoDBConfig `yaml:"mongo"`
	NATS    NATSConfig    `yaml:"nats"`
	MinIO   MinIOConfig   `yaml:"minio"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	SMTP    SMTPConfig    `yaml:"smtp"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracing TracingConfig `yaml:"tracing"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"40s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type SessionConfig struct {
	IdleTTL            time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
	ReplyDelay         time.Duration `yaml:"reply_delay" env:"AGENT_REPLY_DELAY" env-default:"1500ms"`
	DescriptionTimeout time.Duration `yaml:"description_timeout" env:"DESCRIPTION_TIMEOUT" env-default:"30s"`
}

type CatalogConfig struct {
	// Source is "fixtures" or "mongo".
	Source string `yaml:"source" env:"CATALOG_SOURCE" env-default:"fixtures"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"virtucasa"`
}

type NATSConfig struct {
	// Empty URL disables event publishing.
	URL string `yaml:"url" env:"NATS_URL"`
}

type MinIOConfig struct {
	// Empty endpoint disables s3:// tour resolution.
	Endpoint   string        `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey  string        `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey  string        `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket     string        `yaml:"bucket" env:"MINIO_BUCKET" env-default:"property-tours"`
	UseSSL     bool          `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	PresignTTL time.Duration `yaml:"presign_ttl" env:"MINIO_PRESIGN_TTL" env-default:"1h"`
}

type OpenAIConfig struct {
	APIKey    string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model     string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	BaseURL   string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	MaxTokens int    `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"700"`
}

type SMTPConfig struct {
	// Empty host disables inquiry e-mails.
	Host       string `yaml:"host" env:"SMTP_HOST"`
	Port       int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username   string `yaml:"username" env:"SMTP_USERNAME"`
	Password   string `yaml:"password" env:"SMTP_PASSWORD"`
	From       string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@virtucasa.local"`
	AgentInbox string `yaml:"agent_inbox" env:"AGENT_INBOX_EMAIL"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	Output string `yaml:"output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type TracingConfig struct {
	// Empty endpoint keeps the no-op tracer provider.
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"virtucasa-service"`
}

var ErrUnknownCatalogSource = errors.New("config: catalog source must be \"fixtures\" or \"mongo\"")

// Load reads path as YAML (when it exists) and overlays the environment.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, cfg.validate()
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
		log.Printf("Warning: config file not found at %s, loading from environment only", path)
		if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
			return nil, errEnv
		}
	}
	return &cfg, cfg.validate()
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case "fixtures", "mongo":
		return nil
	default:
		return ErrUnknownCatalogSource
	}
}
