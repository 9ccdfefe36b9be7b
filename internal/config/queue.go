package config

import "errors"

type QueueConfig struct {
	Url              string `mapstructure:"url"`
	HookQueueName    string `mapstructure:"hook-queue-name"`
	ConsumerTag      string `mapstructure:"consumer-tag"`
	PrefetchCount    int    `mapstructure:"prefetch-count"`
	RequeueOnFailure bool   `mapstructure:"requeue-on-failure"`
	// ReconnectAttempts bounds the redial attempts after a lost broker
	// connection; 0 means retry without bound.
	ReconnectAttempts uint `mapstructure:"reconnect-attempts"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("queue url is required")
	}
	if cfg.HookQueueName == "" {
		return errors.New("queue hook-queue-name is required")
	}
	if cfg.PrefetchCount < 0 {
		return errors.New("queue prefetch-count must not be negative")
	}

	return nil
}
