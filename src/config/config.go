package config

import (
	"fmt"
	"os"

	"github.com/lakowske/marketbridge/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Defaults applied before validation when the YAML leaves fields unset.
const (
	DefaultBrokerPort        = 7497 // TWS paper trading
	DefaultQueueSize         = 10000
	DefaultClientBufferSize  = 256
	DefaultFrontMonthTimeout = 30
	DefaultGenericTickList   = "233,236,258" // RTVolume, inventory, mark price
	DefaultConnectRetries    = 5
	DefaultConnectRetryDelay = 2
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Broker.Host == "" {
		c.Broker.Host = "127.0.0.1"
	}
	if c.Broker.Port == 0 {
		c.Broker.Port = DefaultBrokerPort
	}
	if c.Broker.ConnectRetries == 0 {
		c.Broker.ConnectRetries = DefaultConnectRetries
	}
	if c.Broker.ConnectRetryDelaySeconds == 0 {
		c.Broker.ConnectRetryDelaySeconds = DefaultConnectRetryDelay
	}
	if c.Bridge.QueueSize == 0 {
		c.Bridge.QueueSize = DefaultQueueSize
	}
	if c.Bridge.ClientBufferSize == 0 {
		c.Bridge.ClientBufferSize = DefaultClientBufferSize
	}
	if c.Bridge.FrontMonthTimeoutSeconds == 0 {
		c.Bridge.FrontMonthTimeoutSeconds = DefaultFrontMonthTimeout
	}
	if c.Bridge.GenericTickList == "" {
		c.Bridge.GenericTickList = DefaultGenericTickList
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Broker configuration
	if c.Broker.Host == "" {
		return fmt.Errorf("broker host cannot be empty")
	}
	if c.Broker.Port <= 0 || c.Broker.Port > 65535 {
		return fmt.Errorf("invalid broker port number: %d", c.Broker.Port)
	}
	if c.Broker.ClientID < 0 {
		return fmt.Errorf("broker client id cannot be negative")
	}
	if c.Broker.ConnectRetries < 1 {
		return fmt.Errorf("broker connect retries must be at least 1")
	}

	// Validate Bridge configuration
	if c.Bridge.QueueSize <= 0 {
		return fmt.Errorf("bridge queue size must be greater than 0")
	}
	if c.Bridge.ClientBufferSize <= 0 {
		return fmt.Errorf("bridge client buffer size must be greater than 0")
	}
	if c.Bridge.FrontMonthTimeoutSeconds <= 0 {
		return fmt.Errorf("front month timeout must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
