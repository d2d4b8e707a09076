package generator

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DocSection is one entry section of a rendered category page. The
// section before the first entry has an empty ID.
type DocSection struct {
	ID      string
	Title   string
	Content string
}

var headingRe = regexp.MustCompile(`^##\s+(.*?)\s*(?:\{#([^}\s]+)\})?\s*$`)

// SplitSections splits rendered CommonMark at its level-2 headings.
func SplitSections(src []byte) []DocSection {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type mark struct {
		start int
		id    string
		title string
	}
	marks := []mark{{start: 0}}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 || h.Lines().Len() == 0 {
			continue
		}
		seg := h.Lines().At(0)
		start := bytes.LastIndexByte(src[:seg.Start], '\n') + 1
		line := src[start:]
		if end := bytes.IndexByte(line, '\n'); end >= 0 {
			line = line[:end]
		}
		m := headingRe.FindSubmatch(line)
		if m == nil {
			continue
		}
		id := string(m[2])
		if id == "" {
			id = string(m[1])
		}
		marks = append(marks, mark{start: start, id: id, title: string(m[1])})
	}

	var sections []DocSection
	for i, m := range marks {
		end := len(src)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		if i == 0 && end == 0 {
			continue
		}
		sections = append(sections, DocSection{ID: m.id, Title: m.title, Content: string(src[m.start:end])})
	}
	return sections
}

// Drift describes how a committed page differs from a fresh rendering.
type Drift struct {
	Changed []string
	Added   []string
	Removed []string
	Diff    string
}

// Clean reports whether both renderings are identical.
func (d Drift) Clean() bool {
	return d.Diff == ""
}

// CompareDocs compares a committed page against a fresh rendering, both
// per section and as a unified diff.
func CompareDocs(name string, committed, rendered []byte) (Drift, error) {
	var drift Drift
	if bytes.Equal(committed, rendered) {
		return drift, nil
	}

	old := make(map[string]string)
	for _, s := range SplitSections(committed) {
		old[s.ID] = s.Content
	}
	seen := make(map[string]bool)
	for _, s := range SplitSections(rendered) {
		seen[s.ID] = true
		prev, ok := old[s.ID]
		switch {
		case !ok:
			drift.Added = append(drift.Added, s.ID)
		case prev != s.Content:
			drift.Changed = append(drift.Changed, s.ID)
		}
	}
	for _, s := range SplitSections(committed) {
		if !seen[s.ID] {
			drift.Removed = append(drift.Removed, s.ID)
		}
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(committed)),
		B:        difflib.SplitLines(string(rendered)),
		FromFile: name,
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		return drift, fmt.Errorf("failed to diff %s: %w", name, err)
	}
	drift.Diff = diff
	return drift, nil
}
