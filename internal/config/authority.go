package config

import (
	"errors"
	"time"
)

// AuthorityConfig describes the staking authority this locker serves.
// Identity is the caller identity accepted on hook invocations and compared
// by the isUnlocked fail-open check; AdminIdentity is the only caller allowed
// to configure claim types.
type AuthorityConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Identity      string        `mapstructure:"identity"`
	AdminIdentity string        `mapstructure:"admin-identity"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *AuthorityConfig) Validate() error {
	if cfg.Endpoint == "" {
		return errors.New("authority endpoint is required")
	}
	if cfg.Identity == "" {
		return errors.New("authority identity is required")
	}
	if cfg.AdminIdentity == "" {
		return errors.New("authority admin-identity is required")
	}
	if cfg.Timeout <= 0 {
		return errors.New("authority timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return errors.New("authority max-retry-times is required")
	}
	if cfg.RetryInterval <= 0 {
		return errors.New("authority retry-interval must be positive")
	}

	return nil
}
