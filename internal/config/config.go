package config

import (
	"strings"
)

// Config holds the service settings. Fields are filled from command line
// flags and environment variables; the environment wins when both are set.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"`
	BaseURL       string `env:"BASE_URL"`
	QRSize        int    `env:"QR_SIZE"`
}

var defaults = Config{
	ServerAddress: "localhost:8080",
	QRSize:        256,
}

// SetDefaults fills unset fields and normalizes BaseURL. An empty BaseURL
// is valid: redirect links are then built from the origin of the incoming
// request.
func (cfg *Config) SetDefaults() {
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = defaults.ServerAddress
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = defaults.QRSize
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
}
