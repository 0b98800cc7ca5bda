package scheduler

import (
	"time"

	appconfig "github.com/smallbiznis/folio/internal/config"
)

// Config controls the maintenance loop interval and retention windows.
type Config struct {
	RunInterval      time.Duration
	SessionRetention time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval:      time.Hour,
		SessionRetention: 30 * 24 * time.Hour,
	}
}

func ProvideConfig(cfg appconfig.Config) Config {
	c := Config{
		RunInterval:      time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		SessionRetention: time.Duration(cfg.SessionRetentionDays) * 24 * time.Hour,
	}
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.SessionRetention <= 0 {
		c.SessionRetention = defaults.SessionRetention
	}
	return c
}
