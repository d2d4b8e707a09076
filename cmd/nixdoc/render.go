package main

import (
	"fmt"
	"os"
	"path/filepath"

	"nixdoc/internal/generator"

	"github.com/spf13/cobra"
)

var renderOpts struct {
	category    string
	description string
	locs        string
	format      string
	output      string
	dir         string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a category from the documentation catalog",
	Long: `Render one category (-c) from the catalog, or every category into a
directory (--dir), one file per category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderOpts.category == "" && renderOpts.dir == "" {
			return fmt.Errorf("either --category or --dir is required")
		}

		w, err := newWriter(cmd, renderOpts.format, renderOpts.locs)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		ctx := cmd.Context()

		if renderOpts.category != "" {
			entries, err := store.LoadCategory(ctx, renderOpts.category)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				logger.Warn("category has no entries", "category", renderOpts.category)
			}
			description := renderOpts.description
			if description == "" {
				description = cfg.Description(renderOpts.category)
			}
			out, err := openOutput(renderOpts.output)
			if err != nil {
				return err
			}
			if err := w.Write(out, renderOpts.category, description, entries); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		}

		if err := os.MkdirAll(renderOpts.dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", renderOpts.dir, err)
		}
		categories, err := store.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, category := range categories {
			entries, err := store.LoadCategory(ctx, category)
			if err != nil {
				return err
			}
			path := filepath.Join(renderOpts.dir, category+extensionOf(w))
			out, err := openOutput(path)
			if err != nil {
				return err
			}
			if err := w.Write(out, category, cfg.Description(category), entries); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			logger.Debug("rendered", "category", category, "entries", len(entries), "path", path)
		}
		logger.Info("render complete", "categories", len(categories), "dir", renderOpts.dir)
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOpts.category, "category", "c", "", "Category to render")
	f.StringVarP(&renderOpts.description, "description", "d", "", "Heading description (defaults to the configured one)")
	f.StringVarP(&renderOpts.locs, "locs", "l", "", "Path to a JSON location index")
	f.StringVar(&renderOpts.format, "format", "", "Output format (markdown, html, json, yaml)")
	f.StringVarP(&renderOpts.output, "output", "o", "", "Write to this file instead of stdout")
	f.StringVar(&renderOpts.dir, "dir", "", "Render every category into this directory")
}

func extensionOf(w *generator.Writer) string {
	switch w.Format {
	case generator.FormatHTML:
		return ".html"
	case generator.FormatJSON:
		return ".json"
	case generator.FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}
