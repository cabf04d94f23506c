package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ClientConfig configures domlyctl: the backend project URL and its public API key.
type ClientConfig struct {
	URL         string        `mapstructure:"domly_url"`
	APIKey      string        `mapstructure:"domly_api_key"`
	SessionFile string        `mapstructure:"domly_session_file"`
	Timeout     time.Duration `mapstructure:"domly_timeout"`
	LogLevel    string        `mapstructure:"domly_log_level"`
}

var clientKeys = []string{"domly_url", "domly_api_key", "domly_session_file", "domly_timeout", "domly_log_level"}

// DefaultSessionFile is ~/.domly/session.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".domly", "session")
	}
	return filepath.Join(home, ".domly", "session")
}

func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()
	return loadClient(viper.New())
}

func loadClient(v *viper.Viper) (*ClientConfig, error) {
	v.SetDefault("domly_url", "http://localhost:8080")
	v.SetDefault("domly_session_file", DefaultSessionFile())
	v.SetDefault("domly_timeout", "30s")
	v.SetDefault("domly_log_level", "warn")
	for _, k := range clientKeys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling client config : %w", err)
	}
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if cfg.URL == "" {
		return nil, fmt.Errorf("DOMLY_URL must not be empty")
	}
	return &cfg, nil
}
