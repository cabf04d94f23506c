package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the backend configuration, read from the environment (and an optional .env file).
type Config struct {
	DatabaseURL     string        `mapstructure:"database_url"`
	DBMaxConns      int           `mapstructure:"db_max_conns"`
	DBMinConns      int           `mapstructure:"db_min_conns"`
	DBMaxConnIdle   time.Duration `mapstructure:"db_max_conn_idle_time"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	UploadDir       string        `mapstructure:"upload_dir"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	ServerPort      string        `mapstructure:"server_port"`
	CORSOrigins     string        `mapstructure:"cors_allowed_origins"`
	CORSCredentials bool          `mapstructure:"cors_allow_credentials"`
	AppEnv          string        `mapstructure:"app_env"`
	EnableTLS       bool          `mapstructure:"enable_tls"`
	TLSCertPath     string        `mapstructure:"tls_cert_path"`
	TLSKeyPath      string        `mapstructure:"tls_key_path"`
	TLSSelfSigned   bool          `mapstructure:"tls_self_signed"`
	TLSCertPEM      string        `mapstructure:"tls_cert"`
	TLSKeyPEM       string        `mapstructure:"tls_key"`
	SendgridAPIKey  string        `mapstructure:"sendgrid_api_key"`
	SenderEmail     string        `mapstructure:"sendgrid_sender_email"`
	SenderName      string        `mapstructure:"sendgrid_sender_name"`
	SalesEmail      string        `mapstructure:"sales_email"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	PublicAPIKey    string        `mapstructure:"public_api_key"`
}

var keys = []string{
	"database_url", "db_max_conns", "db_min_conns", "db_max_conn_idle_time", "migrate_on_start",
	"redis_addr", "redis_password", "redis_db", "session_ttl",
	"upload_dir", "public_base_url", "server_port",
	"cors_allowed_origins", "cors_allow_credentials",
	"app_env", "enable_tls", "tls_cert_path", "tls_key_path", "tls_self_signed", "tls_cert", "tls_key",
	"sendgrid_api_key", "sendgrid_sender_email", "sendgrid_sender_name", "sales_email",
	"log_level", "log_format", "public_api_key",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_min_conns", 2)
	v.SetDefault("db_max_conn_idle_time", "5m")
	v.SetDefault("migrate_on_start", true)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("enable_tls", false)
	v.SetDefault("tls_self_signed", true)
	v.SetDefault("sendgrid_sender_name", "Domly")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config : %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.AppEnv == "production" {
		cfg.EnableTLS = true
	}
	if cfg.ServerPort == "" {
		if cfg.EnableTLS {
			cfg.ServerPort = "8443"
		} else {
			cfg.ServerPort = "8080"
		}
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.AppEnv == "production" {
		if c.TLSCertPath == "" || c.TLSKeyPath == "" {
			return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS, falling back to "*".
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, p := range strings.Split(c.CORSOrigins, ",") {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
