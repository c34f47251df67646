package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		Punchout: PunchoutConfig{
			LoginURI:        "https://catalog.example.com/login?shop=demo",
			ConfirmationURI: "https://catalog.example.com/confirm",
		},
	}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "oci-srm-server-mock", cfg.App.Name)
	assert.Equal(t, "8089", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "https://oci-srm-server-mock", cfg.Punchout.CallbackBaseURL)
}

func TestValidate_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing login uri", func(c *Config) { c.Punchout.LoginURI = "" }},
		{"relative login uri", func(c *Config) { c.Punchout.LoginURI = "/login" }},
		{"non-http login uri", func(c *Config) { c.Punchout.LoginURI = "ftp://catalog.example.com" }},
		{"missing confirmation uri", func(c *Config) { c.Punchout.ConfirmationURI = "" }},
		{"garbage confirmation uri", func(c *Config) { c.Punchout.ConfirmationURI = "http://bad host/" }},
		{"hostless callback base", func(c *Config) { c.Punchout.CallbackBaseURL = "https://" }},
		{"non-numeric port", func(c *Config) { c.App.Port = "http" }},
		{"port out of range", func(c *Config) { c.App.Port = "70000" }},
		{"zero port", func(c *Config) { c.App.Port = "0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestParsedURIs(t *testing.T) {
	cfg := validConfig()

	login, err := cfg.Punchout.ParsedLoginURI()
	require.NoError(t, err)
	assert.Equal(t, "shop=demo", login.RawQuery)

	confirmation, err := cfg.Punchout.ParsedConfirmationURI()
	require.NoError(t, err)
	assert.Equal(t, "/confirm", confirmation.Path)

	callback, err := cfg.Punchout.ParsedCallbackBaseURL()
	require.NoError(t, err)
	assert.Equal(t, "oci-srm-server-mock", callback.Host)
}
