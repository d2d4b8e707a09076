package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"nixdoc/internal/config"
	"nixdoc/internal/extractor"
	"nixdoc/internal/generator"
	"nixdoc/internal/storage"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "nixdoc",
		Short: "Generate CommonMark documentation from Nix library files",
		Long: `nixdoc extracts the documentation comments of the bindings exported by a
Nix library file and renders them in the layout of the nixpkgs manual.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runClassic,
	}

	configPath string
	dbPath     string
	logLevel   string

	cfg    = config.Default()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nixdoc"})
)

// errDrift signals that a committed page differs from a fresh rendering.
var errDrift = errors.New("documentation is out of date")

var classic struct {
	category    string
	description string
	file        string
	locs        string
	format      string
	output      string
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDrift) {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the documentation catalog (SQLite)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVarP(&classic.category, "category", "c", "", "Nix library category (e.g. strings)")
	f.StringVarP(&classic.description, "description", "d", "", "Description of the category")
	f.StringVarP(&classic.file, "file", "f", "", "Nix file to process")
	f.StringVarP(&classic.locs, "locs", "l", "", "Path to a JSON file mapping entry titles to source locations")
	f.StringVar(&classic.format, "format", "", "Output format (markdown, html, json, yaml)")
	f.StringVarP(&classic.output, "output", "o", "", "Write to this file instead of stdout")
	for _, name := range []string{"category", "description", "file"} {
		_ = rootCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
}

// setup loads the configuration and applies the persistent flags on top.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("db") {
		cfg.Catalog.DB = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)
	logger.Debug("configuration loaded", "path", configPath, "db", cfg.Catalog.DB)
	return nil
}

func openStore() (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(cfg.Catalog.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", cfg.Catalog.DB, err)
	}
	return store, nil
}

// newWriter resolves the output format and location index, giving flags
// precedence over the configuration.
func newWriter(cmd *cobra.Command, format, locs string) (*generator.Writer, error) {
	if !cmd.Flags().Changed("format") {
		format = cfg.Output.Format
	}
	f, err := generator.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("locs") {
		locs = cfg.Output.Locs
	}
	locations, err := generator.LoadLocations(locs)
	if err != nil {
		return nil, err
	}
	return &generator.Writer{Format: f, Locations: locations}, nil
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func runClassic(cmd *cobra.Command, args []string) error {
	w, err := newWriter(cmd, classic.format, classic.locs)
	if err != nil {
		return err
	}

	entries, err := extractor.NewExtractor().ExtractFromFile(classic.file, classic.category)
	if err != nil {
		return err
	}
	logger.Debug("extracted", "file", classic.file, "entries", len(entries))

	output := classic.output
	if !cmd.Flags().Changed("output") {
		output = cfg.Output.Path
	}
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := w.Write(out, classic.category, classic.description, entries); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
