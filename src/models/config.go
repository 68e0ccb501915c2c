package models

// MConfig Structure
type MConfig struct {
	Name     string        `yaml:"name"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	Broker   MBrokerConfig `yaml:"broker"`
	Bridge   MBridgeConfig `yaml:"bridge"`
}

type MBrokerConfig struct {
	Host                     string `yaml:"host"`
	Port                     int    `yaml:"port"`
	ClientID                 int    `yaml:"client_id"`
	ConnectRetries           int    `yaml:"connect_retries"`
	ConnectRetryDelaySeconds int    `yaml:"connect_retry_delay_seconds"`
}

type MBridgeConfig struct {
	QueueSize                int    `yaml:"queue_size"`
	ClientBufferSize         int    `yaml:"client_buffer_size"`
	FrontMonthTimeoutSeconds int    `yaml:"front_month_timeout_seconds"`
	GenericTickList          string `yaml:"generic_tick_list"`
}
