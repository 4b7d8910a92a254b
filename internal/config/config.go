package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level struct that holds all configuration.
type Config struct {
	Binance BinanceConfig `yaml:"binance"`
	Server  ServerConfig  `yaml:"server"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Log     LogConfig     `yaml:"log"`
}

// BinanceConfig holds the upstream stream and REST endpoints.
type BinanceConfig struct {
	WSURL         string `yaml:"ws_url"`
	WSFallbackURL string `yaml:"ws_fallback_url"`
	WSTradeURL    string `yaml:"ws_trade_url"`
	APIURL        string `yaml:"api_url"`
	Symbol        string `yaml:"symbol"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// KafkaConfig holds the optional outbound trade feed settings.
// An empty BrokerURL disables the feed.
type KafkaConfig struct {
	BrokerURL string `yaml:"broker_url"`
	Topic     string `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads the configuration file from the given path, applies
// environment overrides for the upstream endpoints, and returns a Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv lets the deployment override the upstream endpoints without
// editing the config file.
func (cfg *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"WS_URL", &cfg.Binance.WSURL},
		{"WS_FALLBACK_URL", &cfg.Binance.WSFallbackURL},
		{"WS_TRADE_URL", &cfg.Binance.WSTradeURL},
		{"BINANCE_API_URL", &cfg.Binance.APIURL},
		{"KAFKA_BROKER_URL", &cfg.Kafka.BrokerURL},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.Binance.Symbol == "" {
		cfg.Binance.Symbol = "BTCUSDT"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
