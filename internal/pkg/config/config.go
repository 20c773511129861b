package config

import (
	"fmt"
	"os"
	"time"

	"github.com/specsinspector/webapp/internal/app/gateway"
)

type GatewayConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type Config struct {
	Gateway     GatewayConfig
	ServerPort  string
	MetricsAddr string
	PprofAddr   string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnvOrDefault("API_REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Gateway: GatewayConfig{
			BaseURL:        getEnvOrDefault("API_BASE_URL", gateway.DefaultBaseURL),
			RequestTimeout: timeout,
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		MetricsAddr: getEnvOrDefault("METRICS_ADDR", ":9092"),
		PprofAddr:   getEnvOrDefault("PPROF_ADDR", ":6060"),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
