package config

import (
	"errors"
	"time"
)

// DerivativeConfig holds transport settings shared by derivative-contract
// and helper-module calls. The target base URL comes from the claim-type
// configuration, not from here.
type DerivativeConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *DerivativeConfig) Validate() error {
	if cfg.Timeout <= 0 {
		return errors.New("derivative timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return errors.New("derivative max-retry-times is required")
	}
	if cfg.RetryInterval <= 0 {
		return errors.New("derivative retry-interval must be positive")
	}

	return nil
}
