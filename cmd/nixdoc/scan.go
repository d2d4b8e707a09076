package main

import (
	"fmt"
	"time"

	"nixdoc/internal/crawler"
	"nixdoc/internal/extractor"
	"nixdoc/internal/generator"
	"nixdoc/internal/git"
	"nixdoc/internal/index"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var scanOpts struct {
	since  string
	report string
}

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Extract every Nix file below root into the documentation catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		idx := index.NewIndexer(crawler.NewCrawler(extractor.NewExtractor()), store, cfg.Description)
		ctx := cmd.Context()
		start := time.Now()

		var stats index.Stats
		var report *generator.RunReport
		if scanOpts.since != "" {
			report = generator.NewRunReport("incremental", root)
			changes, err := git.GetChangedFiles(ctx, root, scanOpts.since)
			if err != nil {
				return fmt.Errorf("failed to get git changes: %w", err)
			}
			changes = git.NixFiles(changes)
			if len(changes) == 0 {
				logger.Info("no changes detected", "since", scanOpts.since)
				return nil
			}
			logger.Info("detected changes", "files", len(changes), "since", scanOpts.since)
			stats, err = idx.IndexChanged(ctx, root, changes, report)
			if err != nil {
				return err
			}
		} else {
			report = generator.NewRunReport("full", root)
			logger.Info("scanning", "root", root)
			stats, err = idx.IndexAll(ctx, root, report)
			if err != nil {
				return err
			}
		}

		for _, s := range report.Signals {
			if s.Severity == "warning" {
				logger.Warn(s.Message, "file", s.File)
			}
		}
		logger.Info("scan complete",
			"files", humanize.Comma(int64(stats.Files)),
			"updated", stats.Updated,
			"unchanged", stats.Skipped,
			"removed", stats.Removed,
			"failed", stats.Failed,
			"entries", humanize.Comma(int64(stats.Entries)),
			"read", humanize.Bytes(uint64(stats.Bytes)),
			"took", time.Since(start).Round(time.Millisecond),
			"db", cfg.Catalog.DB,
		)

		if scanOpts.report != "" {
			if err := report.Save(scanOpts.report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			logger.Info("report written", "path", scanOpts.report)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanOpts.since, "since", "", "Only rescan .nix files changed since this git ref")
	scanCmd.Flags().StringVar(&scanOpts.report, "report", "", "Write a JSON run report to this path")
}
