package generator

import (
	"fmt"
	"io"
	"strings"

	"nixdoc/internal/extractor"
)

// MarkdownGenerator renders manual entries as CommonMark in the layout of
// the nixpkgs manual.
type MarkdownGenerator struct {
	locs Locations
}

// NewMarkdownGenerator creates a generator. locs may be nil.
func NewMarkdownGenerator(locs Locations) *MarkdownGenerator {
	return &MarkdownGenerator{locs: locs}
}

// Generate writes the category header followed by one section per entry.
func (g *MarkdownGenerator) Generate(w io.Writer, category, description string, entries []extractor.ManualEntry) error {
	if err := WriteHeader(w, category, description); err != nil {
		return err
	}
	for _, e := range entries {
		if err := g.WriteSection(w, e); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeader writes the top-level heading of a category page.
func WriteHeader(w io.Writer, category, description string) error {
	if _, err := fmt.Fprintf(w, "# %s {#sec-functions-library-%s}\n\n", description, category); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteSection writes the documentation section of a single entry.
func (g *MarkdownGenerator) WriteSection(w io.Writer, e extractor.ManualEntry) error {
	var sb strings.Builder
	title := e.Title()
	ident := sectionIdent(title)

	fmt.Fprintf(&sb, "## `%s` {#%s}\n\n", title, ident)

	if e.FnType != "" {
		if strings.Contains(e.FnType, "\n") {
			fmt.Fprintf(&sb, "**Type**:\n```\n%s\n```\n\n", e.FnType)
		} else {
			fmt.Fprintf(&sb, "**Type**: `%s`\n\n", e.FnType)
		}
	}

	for _, paragraph := range e.Description {
		fmt.Fprintf(&sb, "%s\n\n", paragraph)
	}

	for _, arg := range e.Args {
		sb.WriteString(formatArgument(arg))
		sb.WriteByte('\n')
	}

	if e.Example != "" {
		fmt.Fprintf(&sb, "::: {.example #ex-%s}\n# `%s` usage example\n\n```nix\n%s\n```\n:::\n", ident, title, e.Example)
	}

	if loc, ok := g.locs[title]; ok {
		fmt.Fprintf(&sb, "Located at %s.\n\n", loc)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write section %s: %w", title, err)
	}
	return nil
}

// sectionIdent is the anchor of an entry; primes are not valid in anchors.
func sectionIdent(title string) string {
	return "function-library-" + strings.ReplaceAll(title, "'", "-prime")
}

func formatArgument(arg extractor.Argument) string {
	switch a := arg.(type) {
	case extractor.Flat:
		return formatSingleArg(a.SingleArg)
	case extractor.Pattern:
		var inner strings.Builder
		for _, entry := range a.Entries {
			for _, line := range strings.Split(strings.TrimSuffix(formatSingleArg(entry), "\n"), "\n") {
				if line == "" {
					inner.WriteByte('\n')
					continue
				}
				inner.WriteString("  " + line + "\n")
			}
		}
		return "structured function argument\n\n: " + strings.TrimLeft(inner.String(), " \t\n")
	default:
		panic(fmt.Sprintf("unknown argument type %T", arg))
	}
}

func formatSingleArg(arg extractor.SingleArg) string {
	doc := "Function argument"
	if arg.Doc != nil {
		if d, ok := extractor.HandleIndentation(*arg.Doc); ok {
			doc = d
		}
	}
	return fmt.Sprintf("`%s`\n\n: %s\n\n", arg.Name, doc)
}
