package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIGDB()
	c.normalizeTMDB()
	c.normalizeYouTube()
	c.normalizeUpdater()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DatabaseDir) == "" {
		c.Paths.DatabaseDir = defaultDatabaseDir
	}
	if c.Paths.DatabaseDir, err = expandPath(c.Paths.DatabaseDir); err != nil {
		return fmt.Errorf("paths.database_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportDir) == "" {
		c.Paths.ReportDir = defaultReportDir
	}
	if c.Paths.ReportDir, err = expandPath(c.Paths.ReportDir); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.SubmissionFile) == "" {
		c.Paths.SubmissionFile = defaultSubmissionFile
	}
	if c.Paths.SubmissionFile, err = expandPath(c.Paths.SubmissionFile); err != nil {
		return fmt.Errorf("paths.submission_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeIGDB() {
	c.IGDB.ClientID = strings.TrimSpace(c.IGDB.ClientID)
	if c.IGDB.ClientID == "" {
		if value, ok := os.LookupEnv("TWITCH_CLIENT_ID"); ok {
			c.IGDB.ClientID = strings.TrimSpace(value)
		}
	}
	c.IGDB.ClientSecret = strings.TrimSpace(c.IGDB.ClientSecret)
	if c.IGDB.ClientSecret == "" {
		if value, ok := os.LookupEnv("TWITCH_CLIENT_SECRET"); ok {
			c.IGDB.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.IGDB.BaseURL = strings.TrimSpace(c.IGDB.BaseURL)
	if c.IGDB.BaseURL == "" {
		c.IGDB.BaseURL = defaultIGDBBaseURL
	}
	c.IGDB.TokenURL = strings.TrimSpace(c.IGDB.TokenURL)
	if c.IGDB.TokenURL == "" {
		c.IGDB.TokenURL = defaultIGDBTokenURL
	}
	if c.IGDB.RequestsPerSecond == 0 {
		c.IGDB.RequestsPerSecond = defaultIGDBRequestRate
	}
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	if c.TMDB.RequestsPerSecond == 0 {
		c.TMDB.RequestsPerSecond = defaultTMDBRequestRate
	}
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok {
			c.YouTube.APIKey = strings.TrimSpace(value)
		}
	}
	c.YouTube.BaseURL = strings.TrimSpace(c.YouTube.BaseURL)
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.RequestsPerSecond == 0 {
		c.YouTube.RequestsPerSecond = defaultYouTubeRequestRate
	}
	if c.YouTube.MinDurationSeconds == 0 {
		c.YouTube.MinDurationSeconds = defaultMinDurationSeconds
	}
	if c.YouTube.MaxDurationSeconds == 0 {
		c.YouTube.MaxDurationSeconds = defaultMaxDurationSeconds
	}
}

func (c *Config) normalizeUpdater() {
	if c.Updater.Workers == 0 {
		c.Updater.Workers = defaultWorkers
	}
	if c.Updater.MaxAttempts == 0 {
		c.Updater.MaxAttempts = defaultMaxAttempts
	}
	c.Updater.Contributor = strings.TrimSpace(c.Updater.Contributor)
	if c.Updater.Contributor == "" {
		if value, ok := os.LookupEnv("THEMERR_CONTRIBUTOR"); ok {
			c.Updater.Contributor = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
