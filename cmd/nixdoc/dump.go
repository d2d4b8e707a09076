package main

import (
	"fmt"
	"os"

	"nixdoc/internal/crawler"
	"nixdoc/internal/extractor"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

var dumpOpts struct {
	file     string
	category string
	tree     bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the extracted entries or the syntax tree of a Nix file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category := dumpOpts.category
		if category == "" {
			category = crawler.CategoryOf(dumpOpts.file)
		}

		src, err := os.ReadFile(dumpOpts.file)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", dumpOpts.file, err)
		}

		ext := extractor.NewExtractor()
		out := cmd.OutOrStdout()
		if dumpOpts.tree {
			tree, err := ext.Parse(dumpOpts.file, string(src))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, tree.Dump())
			return err
		}

		entries, err := ext.ExtractSource(dumpOpts.file, string(src), category)
		if err != nil {
			return err
		}
		_, err = pp.Fprintln(out, entries)
		return err
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOpts.file, "file", "f", "", "Nix file to inspect")
	dumpCmd.Flags().StringVarP(&dumpOpts.category, "category", "c", "", "Category (defaults to the file name)")
	dumpCmd.Flags().BoolVar(&dumpOpts.tree, "tree", false, "Print the lossless syntax tree instead of the entries")
	_ = dumpCmd.MarkFlagRequired("file")
}
