package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"folio/internal/dedup"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	var (
		apply         bool
		minConfidence float64
		minFrequency  int
	)

	cmd := &cobra.Command{
		Use:   "dedup [person|publisher|series|tag|all]",
		Short: "Find and merge duplicate people, publishers, series, and tags",
		Long: `Scans catalog entities for records that denote the same real-world thing
despite spelling variation, reports likely duplicate groups with confidence
scores, and optionally merges them.

Without --apply this is a dry run: nothing is written. With --apply each
accepted group is merged in its own transaction while a writer lock guards
the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if apply {
				lock := flock.New(cfg.LockPath())
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire writer lock: %w", err)
				}
				if !ok {
					return errors.New("another folio process is already writing to this library")
				}
				defer func() {
					_ = lock.Unlock()
				}()
			}

			reporter := newConsoleReporter(cmd.OutOrStdout())
			engine, err := dedup.NewEngine(store, store, reporter, logger)
			if err != nil {
				return err
			}

			var failed int
			for _, kind := range kinds {
				opts := dedup.DefaultOptions(kind)
				opts.MinConfidence = cfg.Dedup.MinConfidenceFor(kind.String())
				opts.MinFrequency = cfg.Dedup.MinFrequency
				opts.Threshold = cfg.Dedup.SimilarityThreshold
				if cmd.Flags().Changed("min-confidence") {
					opts.MinConfidence = minConfidence
				}
				if cmd.Flags().Changed("min-frequency") {
					opts.MinFrequency = minFrequency
				}
				opts.AutoMerge = apply
				opts.DryRun = !apply

				result, err := engine.Run(cmd.Context(), kind, opts)
				if err != nil {
					return err
				}
				renderResult(cmd.OutOrStdout(), result, apply)
				failed += len(result.FailedGroups)
			}
			if failed > 0 {
				return fmt.Errorf("%d group(s) failed to merge", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Merge accepted groups instead of reporting only")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Override the configured confidence floor")
	cmd.Flags().IntVar(&minFrequency, "min-frequency", 0, "Override the configured minimum similarity links per group")

	return cmd
}

func parseKinds(args []string) ([]dedup.Kind, error) {
	if len(args) == 0 || args[0] == "all" {
		return dedup.Kinds(), nil
	}
	kind, err := dedup.ParseKind(args[0])
	if err != nil {
		return nil, err
	}
	return []dedup.Kind{kind}, nil
}

func renderResult(out io.Writer, result *dedup.Result, applied bool) {
	if len(result.Groups) == 0 {
		fmt.Fprintf(out, "%s: no duplicate groups among %d records", result.Kind, result.TotalConsidered)
		if result.SkippedLowConfidence > 0 {
			fmt.Fprintf(out, " (%d below confidence floor)", result.SkippedLowConfidence)
		}
		fmt.Fprintln(out)
		return
	}

	rows := make([][]string, 0, len(result.Groups))
	for _, group := range result.Groups {
		ids := make([]string, 0, len(group.DuplicateIDs))
		for _, id := range group.DuplicateIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		rows = append(rows, []string{
			strconv.FormatInt(group.PrimaryID, 10),
			group.PrimaryText,
			strings.Join(ids, ", "),
			fmt.Sprintf("%.3f", group.Confidence),
			string(group.Pattern),
		})
	}
	fmt.Fprintf(out, "%s: %d duplicate group(s) among %d records\n",
		result.Kind, len(result.Groups), result.TotalConsidered)
	fmt.Fprintln(out, renderTable(
		[]string{"Primary", "Name", "Merges", "Confidence", "Pattern"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	if result.SkippedLowConfidence > 0 {
		fmt.Fprintf(out, "%d cluster(s) skipped below the confidence floor\n", result.SkippedLowConfidence)
	}

	if !applied {
		fmt.Fprintln(out, "dry run; re-run with --apply to merge")
		return
	}
	for _, stats := range result.Merges {
		parts := make([]string, 0, len(stats.RowsUpdated))
		for table, count := range stats.RowsUpdated {
			parts = append(parts, fmt.Sprintf("%s=%d", table, count))
		}
		sort.Strings(parts)
		fmt.Fprintf(out, "merged %d id(s) into %d (%s)\n",
			len(stats.MergedIDs), stats.PrimaryID, strings.Join(parts, ", "))
	}
	for _, failure := range result.FailedGroups {
		fmt.Fprintf(out, "failed: %q: %v\n", failure.Group.PrimaryText, failure.Err)
	}
}
