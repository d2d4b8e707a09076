package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"nixdoc/internal/extractor"
	"nixdoc/internal/generator"

	"github.com/spf13/cobra"
)

var checkOpts struct {
	category    string
	description string
	file        string
	locs        string
	against     string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when a committed documentation page differs from a fresh rendering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("locs") {
			checkOpts.locs = cfg.Output.Locs
		}
		locations, err := generator.LoadLocations(checkOpts.locs)
		if err != nil {
			return err
		}

		entries, err := extractor.NewExtractor().ExtractFromFile(checkOpts.file, checkOpts.category)
		if err != nil {
			return err
		}

		var rendered bytes.Buffer
		if err := generator.NewMarkdownGenerator(locations).Generate(&rendered, checkOpts.category, checkOpts.description, entries); err != nil {
			return err
		}

		committed, err := os.ReadFile(checkOpts.against)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", checkOpts.against, err)
		}

		drift, err := generator.CompareDocs(checkOpts.against, committed, rendered.Bytes())
		if err != nil {
			return err
		}
		if drift.Clean() {
			logger.Info("documentation is up to date", "file", checkOpts.against)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), drift.Diff)
		logger.Error(errDrift.Error(),
			"file", checkOpts.against,
			"changed", strings.Join(drift.Changed, ","),
			"added", strings.Join(drift.Added, ","),
			"removed", strings.Join(drift.Removed, ","),
		)
		return errDrift
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVarP(&checkOpts.category, "category", "c", "", "Nix library category")
	f.StringVarP(&checkOpts.description, "description", "d", "", "Description of the category")
	f.StringVarP(&checkOpts.file, "file", "f", "", "Nix file to process")
	f.StringVarP(&checkOpts.locs, "locs", "l", "", "Path to a JSON location index")
	f.StringVar(&checkOpts.against, "against", "", "Committed markdown page to compare with")
	for _, name := range []string{"category", "description", "file", "against"} {
		_ = checkCmd.MarkFlagRequired(name)
	}
}
