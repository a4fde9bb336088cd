package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateDedup()
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDedup() error {
	if c.Dedup.SimilarityThreshold < 0 || c.Dedup.SimilarityThreshold > 1 {
		return errors.New("dedup.similarity_threshold must be between 0 and 1")
	}
	floors := map[string]float64{
		"dedup.person_min_confidence":    c.Dedup.PersonMinConfidence,
		"dedup.publisher_min_confidence": c.Dedup.PublisherMinConfidence,
		"dedup.series_min_confidence":    c.Dedup.SeriesMinConfidence,
		"dedup.tag_min_confidence":       c.Dedup.TagMinConfidence,
	}
	for name, value := range floors {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Dedup.MinFrequency < 0 {
		return errors.New("dedup.min_frequency must not be negative")
	}
	return nil
}
