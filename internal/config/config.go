package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided. It may be absent.
	DefaultConfigPath = "config.yml"

	defaultPort           = 5000
	defaultEnv            = "development"
	defaultMongoDB        = "portfolio"
	defaultJWTExpire      = "30d"
	defaultCookieDays     = 30
	defaultMaxFileUpload  = 1000000
	defaultFileUploadPath = "public/uploads"
	defaultRateWindow     = "10m"
	defaultRateMax        = 100

	StorageLocal = "local"
	StorageS3    = "s3"
)

// envFiles are loaded (without overriding the real environment) before the config is read.
var envFiles = []string{".env", "config/config.env"}

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port                int             `yaml:"port"`
	Env                 string          `yaml:"env"` // "development" | "production"
	MongoURI            string          `yaml:"mongo_uri"`
	MongoDB             string          `yaml:"mongo_db"`
	RedisURL            string          `yaml:"redis_url"`
	JWTSecret           string          `yaml:"jwt_secret"`
	JWTExpire           string          `yaml:"jwt_expire"`
	JWTCookieExpireDays int             `yaml:"jwt_cookie_expire_days"`
	MaxFileUpload       int64           `yaml:"max_file_upload"`
	FileUploadPath      string          `yaml:"file_upload_path"`
	Storage             StorageConfig   `yaml:"storage"`
	RateLimit           RateLimitConfig `yaml:"rate_limit"`
	AllowedOrigins      []string        `yaml:"allowed_origins"`
	LogDir              string          `yaml:"log_dir"`

	jwtTTL     time.Duration
	rateWindow time.Duration
}

type StorageConfig struct {
	Driver string   `yaml:"driver"` // "local" | "s3"
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
}

type RateLimitConfig struct {
	Window string `yaml:"window"`
	Max    int    `yaml:"max"`
}

// Load reads configPath (optional when it is the default path), applies
// environment overrides and validates the result.
func Load(configPath string) (*AppConfig, error) {
	loadEnvFiles()

	path := strings.TrimSpace(configPath)
	optional := path == "" || path == DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && optional:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:                defaultPort,
		Env:                 defaultEnv,
		JWTExpire:           defaultJWTExpire,
		JWTCookieExpireDays: defaultCookieDays,
		MaxFileUpload:       defaultMaxFileUpload,
		FileUploadPath:      defaultFileUploadPath,
		Storage:             StorageConfig{Driver: StorageLocal},
		RateLimit:           RateLimitConfig{Window: defaultRateWindow, Max: defaultRateMax},
	}
}

func applyEnv(cfg *AppConfig) error {
	var errs []error
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	num := func(dst *int, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
				return
			}
			*dst = n
		}
	}

	num(&cfg.Port, "PORT")
	str(&cfg.Env, "NODE_ENV", "APP_ENV")
	str(&cfg.MongoURI, "MONGO_URI")
	str(&cfg.MongoDB, "MONGO_DB")
	str(&cfg.RedisURL, "REDIS_URL")
	str(&cfg.JWTSecret, "JWT_SECRET")
	str(&cfg.JWTExpire, "JWT_EXPIRE")
	num(&cfg.JWTCookieExpireDays, "JWT_COOKIE_EXPIRE")
	if v, ok := os.LookupEnv("MAX_FILE_UPLOAD"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid MAX_FILE_UPLOAD %q: %w", v, err))
		} else {
			cfg.MaxFileUpload = n
		}
	}
	str(&cfg.FileUploadPath, "FILE_UPLOAD_PATH")
	str(&cfg.Storage.Driver, "STORAGE_DRIVER")
	str(&cfg.Storage.S3.Bucket, "S3_BUCKET")
	str(&cfg.Storage.S3.Region, "S3_REGION")
	str(&cfg.Storage.S3.Endpoint, "S3_ENDPOINT")
	str(&cfg.Storage.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	str(&cfg.Storage.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	str(&cfg.Storage.S3.Prefix, "S3_PREFIX")
	if v, ok := os.LookupEnv("S3_PATH_STYLE"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid S3_PATH_STYLE %q: %w", v, err))
		} else {
			cfg.Storage.S3.PathStyle = b
		}
	}
	str(&cfg.RateLimit.Window, "RATE_LIMIT_WINDOW")
	num(&cfg.RateLimit.Max, "RATE_LIMIT_MAX")
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	str(&cfg.LogDir, "LOG_DIR")
	return errors.Join(errs...)
}

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageLocal
	}
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	if strings.TrimSpace(cfg.MongoDB) == "" {
		cfg.MongoDB = databaseFromURI(cfg.MongoURI)
	}
	if cfg.JWTCookieExpireDays <= 0 {
		cfg.JWTCookieExpireDays = defaultCookieDays
	}
	if cfg.MaxFileUpload <= 0 {
		cfg.MaxFileUpload = defaultMaxFileUpload
	}
	if strings.TrimSpace(cfg.FileUploadPath) == "" {
		cfg.FileUploadPath = defaultFileUploadPath
	}
	if cfg.RateLimit.Max <= 0 {
		cfg.RateLimit.Max = defaultRateMax
	}
}

// Validate checks the settings the server cannot start without.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if strings.TrimSpace(c.MongoURI) == "" {
		return errors.New("mongo_uri (MONGO_URI) is required")
	}
	ttl, err := ParseDuration(c.JWTExpire)
	if err != nil || ttl <= 0 {
		return fmt.Errorf("invalid jwt_expire %q", c.JWTExpire)
	}
	c.jwtTTL = ttl
	window, err := ParseDuration(c.RateLimit.Window)
	if err != nil || window <= 0 {
		return fmt.Errorf("invalid rate_limit.window %q", c.RateLimit.Window)
	}
	c.rateWindow = window

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		s3 := c.Storage.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return errors.New("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret (JWT_SECRET) is required")
	}
	return nil
}

// ParseDuration accepts Go durations plus a whole-day suffix such as "30d".
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(raw)
}

func databaseFromURI(uri string) string {
	u, err := neturl.Parse(strings.TrimSpace(uri))
	if err != nil {
		return defaultMongoDB
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDB
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func (c *AppConfig) IsDev() bool {
	return c.Env != "production"
}

// JWTTTL is the lifetime of issued identity tokens.
func (c *AppConfig) JWTTTL() time.Duration { return c.jwtTTL }

// CookieTTL is the lifetime of the token cookie.
func (c *AppConfig) CookieTTL() time.Duration {
	return time.Duration(c.JWTCookieExpireDays) * 24 * time.Hour
}

// RateWindow is the fixed rate-limit window.
func (c *AppConfig) RateWindow() time.Duration { return c.rateWindow }

func (c *AppConfig) UploadDir() string {
	return ResolveRuntimePath(c.FileUploadPath, defaultFileUploadPath)
}

func (c *AppConfig) LogsDir() string {
	return ResolveRuntimePath(c.LogDir, "logs")
}
