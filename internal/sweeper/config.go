package sweeper

import "time"

// Config controls sweep cadence.
type Config struct {
	Interval   time.Duration
	JobTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval:   time.Hour,
		JobTimeout: 10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
