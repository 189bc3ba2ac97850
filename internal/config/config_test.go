package config

import (
	"testing"

	"github.com/caarlos0/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Config
	}{
		{
			"empty config",
			Config{},
			Config{ServerAddress: "localhost:8080", QRSize: 256},
		},
		{
			"explicit values kept",
			Config{ServerAddress: "0.0.0.0:5000", BaseURL: "https://qr.example.com", QRSize: 512},
			Config{ServerAddress: "0.0.0.0:5000", BaseURL: "https://qr.example.com", QRSize: 512},
		},
		{
			"trailing slash stripped from base URL",
			Config{BaseURL: "https://qr.example.com/"},
			Config{ServerAddress: "localhost:8080", BaseURL: "https://qr.example.com", QRSize: 256},
		},
		{
			"negative size replaced",
			Config{QRSize: -1},
			Config{ServerAddress: "localhost:8080", QRSize: 256},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.SetDefaults()
			assert.Equal(t, tt.want, tt.cfg)
		})
	}
}

func TestEnvOverridesFlags(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:9090")
	t.Setenv("BASE_URL", "https://short.example.com/")

	cfg := Config{ServerAddress: "localhost:3000"}
	require.NoError(t, env.Parse(&cfg))
	cfg.SetDefaults()

	assert.Equal(t, "localhost:9090", cfg.ServerAddress)
	assert.Equal(t, "https://short.example.com", cfg.BaseURL)
	assert.Equal(t, 256, cfg.QRSize)
}
