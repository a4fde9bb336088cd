package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or scaffold folio configuration",
	}
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "library_dir = %s\n", cfg.Paths.LibraryDir)
			fmt.Fprintf(out, "log_dir     = %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "database    = %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "log format  = %s, level = %s\n", cfg.Logging.Format, cfg.Logging.Level)
			fmt.Fprintf(out, "dedup threshold = %.2f, min_frequency = %d, auto_merge = %v\n",
				cfg.Dedup.SimilarityThreshold, cfg.Dedup.MinFrequency, cfg.Dedup.AutoMerge)
			fmt.Fprintf(out, "confidence floors: person %.2f, publisher %.2f, series %.2f, tag %.2f\n",
				cfg.Dedup.PersonMinConfidence, cfg.Dedup.PublisherMinConfidence,
				cfg.Dedup.SeriesMinConfidence, cfg.Dedup.TagMinConfidence)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
