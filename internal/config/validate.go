package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRates(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateUpdater(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRates() error {
	if c.IGDB.RequestsPerSecond <= 0 {
		return errors.New("igdb.requests_per_second must be positive")
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return errors.New("tmdb.requests_per_second must be positive")
	}
	if c.YouTube.RequestsPerSecond <= 0 {
		return errors.New("youtube.requests_per_second must be positive")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.MinDurationSeconds <= 0 {
		return errors.New("youtube.min_duration_seconds must be positive")
	}
	if c.YouTube.MaxDurationSeconds < c.YouTube.MinDurationSeconds {
		return fmt.Errorf("youtube.max_duration_seconds must be >= youtube.min_duration_seconds (%d)", c.YouTube.MinDurationSeconds)
	}
	return nil
}

func (c *Config) validateUpdater() error {
	if c.Updater.Workers < 1 {
		return errors.New("updater.workers must be at least 1")
	}
	if c.Updater.MaxAttempts < 1 {
		return errors.New("updater.max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
