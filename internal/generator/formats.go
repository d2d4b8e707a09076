package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"nixdoc/internal/extractor"
)

// Format selects the output representation of a category.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name. The empty string means markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Writer renders a category in one of the supported formats.
type Writer struct {
	Format    Format
	Locations Locations
}

// Write renders entries of a category to w.
func (o *Writer) Write(w io.Writer, category, description string, entries []extractor.ManualEntry) error {
	if entries == nil {
		entries = []extractor.ManualEntry{}
	}
	switch o.Format {
	case FormatMarkdown, "":
		return NewMarkdownGenerator(o.Locations).Generate(w, category, description, entries)
	case FormatHTML:
		var md bytes.Buffer
		if err := NewMarkdownGenerator(o.Locations).Generate(&md, category, description, entries); err != nil {
			return err
		}
		return RenderHTML(w, md.Bytes())
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries as JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", o.Format)
	}
}

// RenderHTML converts CommonMark produced by the markdown generator to
// HTML. Heading anchors and argument definition lists are kept.
func RenderHTML(w io.Writer, markdown []byte) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.DefinitionList, extension.Table),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	if err := md.Convert(markdown, w); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
