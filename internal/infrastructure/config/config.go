package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Punchout PunchoutConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// PunchoutConfig holds the punch-out integration endpoints. LoginURI and
// ConfirmationURI point at the supplier side; CallbackBaseURL is this
// service's own externally visible base URL, used to build the HOOK_URL
// the catalog calls back into.
type PunchoutConfig struct {
	LoginURI        string
	ConfirmationURI string
	CallbackBaseURL string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SRM_ prefix (e.g. SRM_PUNCHOUT_LOGIN_URI)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Punchout: PunchoutConfig{
			LoginURI:        v.GetString("punchout.login_uri"),
			ConfirmationURI: v.GetString("punchout.confirmation_uri"),
			CallbackBaseURL: v.GetString("punchout.callback_base_url"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "oci-srm-server-mock"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8089"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Confirmation proxies a slow remote call, so the write timeout
		// must outlast the 30s outbound client timeout.
		cfg.HTTP.WriteTimeout = 45 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Punchout.CallbackBaseURL == "" {
		cfg.Punchout.CallbackBaseURL = "https://oci-srm-server-mock"
	}
}

// validate performs validation on the configuration. Startup must fail
// fast on any invalid endpoint: a partially configured instance must never
// start serving.
func (c *Config) validate() error {
	port, err := strconv.Atoi(c.App.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("app.port must be a port number between 1 and 65535, got %q", c.App.Port)
	}

	if c.Punchout.LoginURI == "" {
		return fmt.Errorf("punchout.login_uri is required")
	}
	if _, err := parseHTTPURI(c.Punchout.LoginURI); err != nil {
		return fmt.Errorf("punchout.login_uri: %w", err)
	}

	if c.Punchout.ConfirmationURI == "" {
		return fmt.Errorf("punchout.confirmation_uri is required")
	}
	if _, err := parseHTTPURI(c.Punchout.ConfirmationURI); err != nil {
		return fmt.Errorf("punchout.confirmation_uri: %w", err)
	}

	if _, err := parseHTTPURI(c.Punchout.CallbackBaseURL); err != nil {
		return fmt.Errorf("punchout.callback_base_url: %w", err)
	}

	return nil
}

// ParsedLoginURI returns the parsed supplier catalog login URI.
func (p *PunchoutConfig) ParsedLoginURI() (*url.URL, error) {
	return parseHTTPURI(p.LoginURI)
}

// ParsedConfirmationURI returns the parsed confirmation endpoint URI.
func (p *PunchoutConfig) ParsedConfirmationURI() (*url.URL, error) {
	return parseHTTPURI(p.ConfirmationURI)
}

// ParsedCallbackBaseURL returns the parsed callback base URL.
func (p *PunchoutConfig) ParsedCallbackBaseURL() (*url.URL, error) {
	return parseHTTPURI(p.CallbackBaseURL)
}

func parseHTTPURI(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("not a valid URI: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URI %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URI %q has no host", raw)
	}
	return u, nil
}
