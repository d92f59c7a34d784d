package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the environment driven configuration for the media studio service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"media-studio"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MEDIA_API_PORT" envDefault:"8290"`
	LogLevel        string        `env:"MEDIA_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"MEDIA_LOG_FORMAT" envDefault:"json"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database - Read/Write Split (required, no defaults)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`
	DBPostgresqlRead1DSN string `env:"DB_POSTGRESQL_READ1_DSN"` // Optional read replica

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Asset Store Selection
	AssetStoreBackend string        `env:"ASSET_STORE_BACKEND" envDefault:"imagekit"` // Options: "imagekit" or "s3"
	AssetStoreTimeout time.Duration `env:"ASSET_STORE_TIMEOUT" envDefault:"10s"`
	RenderEndpoint    string        `env:"RENDER_ENDPOINT"`

	// ImageKit Configuration
	ImageKitPrivateKey  string `env:"IMAGEKIT_PRIVATE_KEY"`
	ImageKitURLEndpoint string `env:"IMAGEKIT_URL_ENDPOINT"`
	ImageKitAPIURL      string `env:"IMAGEKIT_API_URL" envDefault:"https://api.imagekit.io"`
	ImageKitUploadURL   string `env:"IMAGEKIT_UPLOAD_URL" envDefault:"https://upload.imagekit.io"`
	ImageKitFolder      string `env:"IMAGEKIT_FOLDER" envDefault:"/"`

	// S3 Storage Configuration
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT" envDefault:"https://s3.menlo.ai"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-west-2"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"true"`

	// Media Configuration
	MaxMediaBytes   int64 `env:"MEDIA_MAX_BYTES" envDefault:"20971520"`
	ListConcurrency int   `env:"LIST_CONCURRENCY" envDefault:"8"`

	// Rate Limiting
	RateLimitRequests   int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	RateLimitWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10s"`
	RateLimitPolicyFile string        `env:"RATE_LIMIT_POLICY_FILE"`
	RedisURL            string        `env:"REDIS_URL"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0"`

	// Temporary Media Reclamation
	TemporaryRetention time.Duration `env:"TEMPORARY_RETENTION" envDefault:"24h"`
	ReclaimEnabled     bool          `env:"RECLAIM_ENABLED" envDefault:"true"`
	ReclaimSchedule    string        `env:"RECLAIM_SCHEDULE" envDefault:"0 0 * * *"`
	ReclaimBatchSize   int           `env:"RECLAIM_BATCH_SIZE" envDefault:"100"`
	CronSecret         string        `env:"CRON_SECRET"`

	// Authentication
	AuthEnabled     bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer      string `env:"AUTH_ISSUER"`
	AuthAudience    string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL     string `env:"AUTH_JWKS_URL"`
	AuthUserIDClaim string `env:"AUTH_USER_ID_CLAIM" envDefault:"uid"`

	// Anonymous callers
	AnonymousCookieName string        `env:"ANONYMOUS_COOKIE_NAME" envDefault:"anonymous_id"`
	AnonymousCookieTTL  time.Duration `env:"ANONYMOUS_COOKIE_TTL" envDefault:"24h"`

	// RateLimitPolicies is loaded from RateLimitPolicyFile.
	RateLimitPolicies map[string]RateLimitPolicy `env:"-"`
}

// RateLimitPolicy overrides the default window for one operation class.
type RateLimitPolicy struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type policyFile struct {
	Policies map[string]RateLimitPolicy `yaml:"policies"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if cfg.RateLimitPolicyFile != "" {
		policies, err := LoadRateLimitPolicies(cfg.RateLimitPolicyFile)
		if err != nil {
			return nil, err
		}
		cfg.RateLimitPolicies = policies
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.AssetStoreBackend = strings.ToLower(strings.TrimSpace(c.AssetStoreBackend))
	c.ImageKitPrivateKey = strings.TrimSpace(c.ImageKitPrivateKey)
	c.ImageKitURLEndpoint = strings.TrimSpace(c.ImageKitURLEndpoint)
	c.RenderEndpoint = strings.TrimSpace(c.RenderEndpoint)
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3PublicEndpoint = strings.TrimSpace(c.S3PublicEndpoint)

	if c.MaxMediaBytes <= 0 {
		c.MaxMediaBytes = 20 * 1024 * 1024
	}
	if c.ListConcurrency <= 0 {
		c.ListConcurrency = 8
	}
	if c.ReclaimBatchSize <= 0 {
		c.ReclaimBatchSize = 100
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.TemporaryRetention <= 0 {
		return fmt.Errorf("TEMPORARY_RETENTION must be positive")
	}

	switch c.AssetStoreBackend {
	case "", "imagekit":
		c.AssetStoreBackend = "imagekit"
		if c.ImageKitPrivateKey == "" {
			return fmt.Errorf("IMAGEKIT_PRIVATE_KEY is required when ASSET_STORE_BACKEND is imagekit")
		}
		if c.ImageKitURLEndpoint == "" {
			return fmt.Errorf("IMAGEKIT_URL_ENDPOINT is required when ASSET_STORE_BACKEND is imagekit")
		}
		if c.RenderEndpoint == "" {
			c.RenderEndpoint = c.ImageKitURLEndpoint
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("MEDIA_S3_BUCKET is required when ASSET_STORE_BACKEND is s3")
		}
		if c.RenderEndpoint == "" {
			return fmt.Errorf("RENDER_ENDPOINT is required when ASSET_STORE_BACKEND is s3")
		}
	default:
		return fmt.Errorf("unsupported ASSET_STORE_BACKEND %q", c.AssetStoreBackend)
	}

	if c.AuthEnabled {
		if strings.TrimSpace(c.AuthIssuer) == "" {
			return fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(c.AuthJWKSURL) == "" {
			return fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return nil
}

// LoadRateLimitPolicies reads per-operation rate limit overrides from a YAML file:
//
//	policies:
//	  uploadAnonymous: {requests: 3, window: 1m}
func LoadRateLimitPolicies(path string) (map[string]RateLimitPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate limit policy file: %w", err)
	}
	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rate limit policy file: %w", err)
	}
	for op, policy := range file.Policies {
		if policy.Requests <= 0 || policy.Window <= 0 {
			return nil, fmt.Errorf("rate limit policy %q needs positive requests and window", op)
		}
	}
	return file.Policies, nil
}

// RateLimitFor returns the window applied to an operation class.
func (c *Config) RateLimitFor(operation string) RateLimitPolicy {
	if policy, ok := c.RateLimitPolicies[operation]; ok {
		return policy
	}
	return RateLimitPolicy{Requests: c.RateLimitRequests, Window: c.RateLimitWindow}
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// GetDatabaseReadDSN returns the read replica DSN, falling back to the write DSN.
func (c *Config) GetDatabaseReadDSN() string {
	if c.DBPostgresqlRead1DSN != "" {
		return c.DBPostgresqlRead1DSN
	}
	return c.GetDatabaseWriteDSN()
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsS3Storage returns true if the S3 asset store backend is configured.
func (c *Config) IsS3Storage() bool {
	return c.AssetStoreBackend == "s3"
}

// UsesRedis reports whether shared Redis state is configured.
func (c *Config) UsesRedis() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}
