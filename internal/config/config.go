package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Db         DbConfig         `mapstructure:"db"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Authority  AuthorityConfig  `mapstructure:"authority"`
	Derivative DerivativeConfig `mapstructure:"derivative"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Poller     PollerConfig     `mapstructure:"poller"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Server.Validate(); err != nil {
		return err
	}
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.Queue.Validate(); err != nil {
		return err
	}
	if err := cfg.Authority.Validate(); err != nil {
		return err
	}
	if err := cfg.Derivative.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	return cfg.Poller.Validate()
}

// New returns a validated Config loaded from the given yml file.
func New(cfgFile string) (*Config, error) {
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
