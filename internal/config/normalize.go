package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeDedup()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
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

func (c *Config) normalizeDedup() {
	if c.Dedup.SimilarityThreshold == 0 {
		c.Dedup.SimilarityThreshold = defaultSimilarityThreshold
	}
	if c.Dedup.PersonMinConfidence == 0 {
		c.Dedup.PersonMinConfidence = defaultPersonMinConfidence
	}
	if c.Dedup.PublisherMinConfidence == 0 {
		c.Dedup.PublisherMinConfidence = defaultPublisherMinConfidence
	}
	if c.Dedup.SeriesMinConfidence == 0 {
		c.Dedup.SeriesMinConfidence = defaultSeriesMinConfidence
	}
	if c.Dedup.TagMinConfidence == 0 {
		c.Dedup.TagMinConfidence = defaultTagMinConfidence
	}
	if c.Dedup.MinFrequency == 0 {
		c.Dedup.MinFrequency = defaultMinFrequency
	}
}
