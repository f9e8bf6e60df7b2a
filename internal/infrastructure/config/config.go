package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends for the paid set.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
	Asaas         AsaasConfig         `mapstructure:"asaas"`
	RapidAPI      RapidAPIConfig      `mapstructure:"rapidapi"`
	Firebase      FirebaseConfig      `mapstructure:"firebase"`
	Media         MediaConfig         `mapstructure:"media"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// StoreConfig selects where the paid set lives.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`
	FilePath string `mapstructure:"file_path"`
	// ConnectAttempts bounds how often bootstrap tries to reach a remote backend.
	ConnectAttempts uint          `mapstructure:"connect_attempts"`
	ConnectDelay    time.Duration `mapstructure:"connect_delay"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	Key      string `mapstructure:"key"`
}

type DynamoDBConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Table           string `mapstructure:"table"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type AsaasConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	WebhookToken   string        `mapstructure:"webhook_token"`
	DefaultDueDays int           `mapstructure:"default_due_days"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type RapidAPIConfig struct {
	Key     string        `mapstructure:"key"`
	Host    string        `mapstructure:"host"`
	Scheme  string        `mapstructure:"scheme"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FirebaseConfig points at the bucket behind Firebase Storage. Credentials
// come from the environment (GOOGLE_APPLICATION_CREDENTIALS or the metadata
// server). Endpoint overrides the Cloud Storage API, e.g. for an emulator;
// DownloadBaseURL prefixes the download links handed to clients.
type FirebaseConfig struct {
	StorageBucket   string        `mapstructure:"storage_bucket"`
	DownloadBaseURL string        `mapstructure:"download_base_url"`
	Endpoint        string        `mapstructure:"endpoint"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type MediaConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	EnableMetrics  bool   `mapstructure:"enable_metrics"`
	EnableTracing  bool   `mapstructure:"enable_tracing"`
}

// env names used by the earlier deployment, still honoured as fallbacks
var legacyEnv = map[string]string{
	"asaas.api_key":           "ASAAS_API_KEY",
	"asaas.webhook_token":     "ASAAS_WEBHOOK_TOKEN",
	"rapidapi.key":            "RAPIDAPI_KEY",
	"rapidapi.host":           "RAPIDAPI_HOST",
	"firebase.storage_bucket": "FIREBASE_STORAGE_BUCKET",
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "CHECKOUT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/checkout")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the process needs to start. Provider
// credentials are not required here; a missing key is reported by the
// request that needs it.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit cannot be negative"))
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.FilePath == "" {
			errs = append(errs, fmt.Errorf("store.file_path is required for the file backend"))
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("database.port must be positive"))
		}
	case BackendRedis:
		if c.Redis.Port <= 0 {
			errs = append(errs, fmt.Errorf("redis.port must be positive"))
		}
		if c.Redis.Key == "" {
			errs = append(errs, fmt.Errorf("redis.key is required"))
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			errs = append(errs, fmt.Errorf("dynamodb.table is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of file, redis, postgres, dynamodb, got %q", c.Store.Backend))
	}

	if _, err := url.ParseRequestURI(c.Asaas.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("asaas.base_url must be an absolute URL"))
	}
	if c.Asaas.DefaultDueDays < 0 {
		errs = append(errs, fmt.Errorf("asaas.default_due_days cannot be negative"))
	}
	if c.Media.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("media.max_bytes must be positive"))
	}

	// Production environment checks
	env := os.Getenv("ENV")
	if env == "production" || env == "prod" {
		if c.Asaas.WebhookToken == "" {
			errs = append(errs, fmt.Errorf("asaas.webhook_token required in production"))
		}
		if c.Store.Backend == BackendPostgres && c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("database.password required in production"))
		}
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Store defaults
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.file_path", "/tmp/payments.json")
	v.SetDefault("store.connect_attempts", 5)
	v.SetDefault("store.connect_delay", "1s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "checkout")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "checkout")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.ssl_mode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.key", "payments:paid")

	// DynamoDB defaults
	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.table", "paid_references")
	v.SetDefault("dynamodb.access_key_id", "")
	v.SetDefault("dynamodb.secret_access_key", "")

	// Provider defaults
	v.SetDefault("asaas.api_key", "")
	v.SetDefault("asaas.base_url", "https://api-sandbox.asaas.com/v3")
	v.SetDefault("asaas.webhook_token", "")
	v.SetDefault("asaas.default_due_days", 5)
	v.SetDefault("asaas.timeout", "15s")

	v.SetDefault("rapidapi.key", "")
	v.SetDefault("rapidapi.host", "")
	v.SetDefault("rapidapi.scheme", "https")
	v.SetDefault("rapidapi.timeout", "20s")

	v.SetDefault("firebase.storage_bucket", "")
	v.SetDefault("firebase.download_base_url", "https://firebasestorage.googleapis.com/v0")
	v.SetDefault("firebase.endpoint", "")
	v.SetDefault("firebase.timeout", "5m")

	v.SetDefault("media.max_bytes", 100<<20)

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.enable_tracing", false)
}

func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// DatabaseURL returns the URL form golang-migrate expects.
func (c *DatabaseConfig) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
