package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port               string `yaml:"port" env:"SERVER_PORT"`
		Mode               string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout        string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout       string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		MaxMultipartMemory int64  `yaml:"max_multipart_memory" env:"SERVER_MAX_MULTIPART_MEMORY"`
		MigrationsPath     string `yaml:"migrations_path" env:"SERVER_MIGRATIONS_PATH"`
		// TrustedProxies lists proxy addresses or CIDRs whose forwarding headers are honoured
		TrustedProxies string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret            string `yaml:"secret" env:"JWT_SECRET"`
		SessionExpiration string `yaml:"session_expiration" env:"JWT_SESSION_EXPIRATION"`
		Issuer            string `yaml:"issuer" env:"JWT_ISSUER"`
		CookieName        string `yaml:"cookie_name" env:"JWT_COOKIE_NAME"`
		CookieSecure      bool   `yaml:"cookie_secure" env:"JWT_COOKIE_SECURE"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
		PublicBaseURL string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
		TempDir       string `yaml:"temp_dir" env:"STORAGE_TEMP_DIR"`

		FTP struct {
			Host     string `yaml:"host" env:"FTP_HOST"`
			Port     int    `yaml:"port" env:"FTP_PORT"`
			User     string `yaml:"user" env:"FTP_USER"`
			Password string `yaml:"password" env:"FTP_PASSWORD"`
			BasePath string `yaml:"base_path" env:"FTP_BASE_PATH"`
			Timeout  string `yaml:"timeout" env:"FTP_TIMEOUT"`
		} `yaml:"ftp"`

		MinIO struct {
			Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
			UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
			Region    string `yaml:"region" env:"MINIO_REGION"`
		} `yaml:"minio"`

		Local struct {
			Path string `yaml:"path" env:"LOCAL_STORAGE_PATH"`
		} `yaml:"local"`
	} `yaml:"storage"`

	SMTP struct {
		Host          string `yaml:"host" env:"SMTP_HOST"`
		Port          int    `yaml:"port" env:"SMTP_PORT"`
		Username      string `yaml:"username" env:"SMTP_USERNAME"`
		Password      string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName      string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail     string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		NotifyAddress string `yaml:"notify_address" env:"SMTP_NOTIFY_ADDRESS"`
		UseTLS        bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		Timeout       string `yaml:"timeout" env:"SMTP_TIMEOUT"`
	} `yaml:"smtp"`

	CORS struct {
		AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	RateLimit struct {
		RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS"`
		Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Admin struct {
		Username string `yaml:"username" env:"ADMIN_USERNAME"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
		Name     string `yaml:"name" env:"ADMIN_NAME"`
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	} `yaml:"admin"`

	MediaCleanup struct {
		Interval    string `yaml:"interval" env:"MEDIA_CLEANUP_INTERVAL"`
		BatchSize   int    `yaml:"batch_size" env:"MEDIA_CLEANUP_BATCH_SIZE"`
		MaxAttempts int    `yaml:"max_attempts" env:"MEDIA_CLEANUP_MAX_ATTEMPTS"`
	} `yaml:"media_cleanup"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults plus environment are enough to boot.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "30s"
	config.Server.WriteTimeout = "60s"
	config.Server.MaxMultipartMemory = 32 << 20
	config.Server.MigrationsPath = "migrations"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "clubsite"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.SessionExpiration = "720h"
	config.JWT.Issuer = "clubsite"
	config.JWT.CookieName = "admin_session"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = "ftp"
	config.Storage.PublicBaseURL = "http://localhost:8080/uploads"
	config.Storage.TempDir = os.TempDir()
	config.Storage.FTP.Port = 21
	config.Storage.FTP.BasePath = "/public_html/uploads"
	config.Storage.FTP.Timeout = "15s"
	config.Storage.MinIO.Bucket = "clubsite"
	config.Storage.MinIO.Region = "us-east-1"
	config.Storage.Local.Path = "uploads"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Club Website"
	config.SMTP.Timeout = "10s"

	config.CORS.AllowedOrigins = "*"

	config.RateLimit.RPS = 0.2
	config.RateLimit.Burst = 5

	config.Admin.Name = "Administrator"

	config.MediaCleanup.Interval = "5m"
	config.MediaCleanup.BatchSize = 50
	config.MediaCleanup.MaxAttempts = 5
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid JWT session expiration format: %w", err)
	}

	switch strings.ToLower(config.Storage.Driver) {
	case "ftp":
		if config.Storage.FTP.Host == "" {
			return fmt.Errorf("ftp host is required when storage driver is ftp")
		}
	case "minio":
		if config.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("minio endpoint is required when storage driver is minio")
		}
	case "local":
	default:
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if config.Storage.PublicBaseURL == "" {
		return fmt.Errorf("storage public base URL is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// AllowedOrigins splits the comma separated CORS origin list
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORS.AllowedOrigins)
}

// TrustedProxies splits the comma separated proxy list. Empty means no proxy
// is trusted and the socket address identifies the client.
func (c *Config) TrustedProxies() []string {
	return splitList(c.Server.TrustedProxies)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
