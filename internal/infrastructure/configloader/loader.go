package configloader

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                  string `yaml:"port"`
	ReadTimeoutSeconds    int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds   int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds    int    `yaml:"idleTimeoutSeconds"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// GMXConfig holds protocol-specific configuration.
type GMXConfig struct {
	DefaultChainID uint64            `yaml:"defaultChainId"`
	RPCOverrides   map[uint64]string `yaml:"rpcOverrides"` // chain id -> RPC URL
	ReaderPageSize int64             `yaml:"readerPageSize"`
}

// RPCClientConfig holds configuration for JSON-RPC clients.
type RPCClientConfig struct {
	CallTimeoutSeconds       int     `yaml:"callTimeoutSeconds"`
	ConnectionTimeoutSeconds int     `yaml:"connectionTimeoutSeconds"`
	RateLimitPerSecond       float64 `yaml:"rateLimitPerSecond"`
	Burst                    int     `yaml:"burst"`
	MaxCallsPerBatch         int     `yaml:"maxCallsPerBatch"`
}

// OracleConfig holds configuration for the GMX oracle REST client.
type OracleConfig struct {
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecFile string `yaml:"specFile"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	GMX       GMXConfig       `yaml:"gmx"`
	RPCClient RPCClientConfig `yaml:"rpcClient"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Swagger   SwaggerConfig   `yaml:"swagger"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
// A missing file is not an error: the defaults describe a working Arbitrum setup.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using defaults", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
		logrus.Infof("Server.Port overridden by PORT env: %s", port)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 35
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Server.RequestTimeoutSeconds <= 0 {
		cfg.Server.RequestTimeoutSeconds = 25
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.GMX.DefaultChainID == 0 {
		cfg.GMX.DefaultChainID = 42161 // Arbitrum
		logrus.Infof("GMX.DefaultChainID not set, defaulting to %d", cfg.GMX.DefaultChainID)
	}
	if cfg.GMX.ReaderPageSize <= 0 {
		cfg.GMX.ReaderPageSize = 1000
	}

	if cfg.RPCClient.CallTimeoutSeconds <= 0 {
		cfg.RPCClient.CallTimeoutSeconds = 20
	}
	if cfg.RPCClient.ConnectionTimeoutSeconds <= 0 {
		cfg.RPCClient.ConnectionTimeoutSeconds = 10
	}
	if cfg.RPCClient.RateLimitPerSecond <= 0 {
		cfg.RPCClient.RateLimitPerSecond = 20
	}
	if cfg.RPCClient.Burst <= 0 {
		cfg.RPCClient.Burst = 10
	}
	if cfg.RPCClient.MaxCallsPerBatch <= 0 {
		cfg.RPCClient.MaxCallsPerBatch = 100
	}

	if cfg.Oracle.RequestTimeoutMillis <= 0 {
		cfg.Oracle.RequestTimeoutMillis = 10000
	}

	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}
}
