package config

import (
	"errors"
	"time"
)

type PollerConfig struct {
	LockedPositionsInterval time.Duration `mapstructure:"locked-positions-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.LockedPositionsInterval <= 0 {
		return errors.New("locked-positions-interval must be positive")
	}

	return nil
}
