package extractor

import (
	"strings"
	"unicode"
)

type section int

const (
	sectionDoc section = iota
	sectionType
	sectionExample
)

const (
	typeKeyword    = "Type:"
	exampleKeyword = "Example:"
)

// ParseDocComment splits raw comment text into its description, type and
// example sections. A line whose trimmed text starts with "Type:" or
// "Example:" switches the section; the text after the keyword belongs to
// the new section. Repeated keywords keep appending to the same section.
func ParseDocComment(raw string) DocComment {
	var bufs [3]strings.Builder
	state := sectionDoc

	for _, line := range strings.SplitAfter(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if suffix, ok := strings.CutPrefix(trimmed, typeKeyword); ok {
			state = sectionType
			bufs[state].WriteString(suffix)
			bufs[state].WriteByte('\n')
			continue
		}
		if suffix, ok := strings.CutPrefix(trimmed, exampleKeyword); ok {
			state = sectionExample
			bufs[state].WriteString(suffix)
			bufs[state].WriteByte('\n')
			continue
		}
		bufs[state].WriteString(line)
	}

	doc, _ := HandleIndentation(bufs[sectionDoc].String())
	typ, _ := HandleIndentation(bufs[sectionType].String())
	example, _ := HandleIndentation(bufs[sectionExample].String())
	return DocComment{Doc: doc, Type: typ, Example: example}
}

// HandleIndentation normalizes the indentation of comment text. The first
// line is trimmed on its own since it usually follows the comment marker;
// the remaining lines are dedented together, keeping relative indentation.
// It reports false when nothing but whitespace remains.
func HandleIndentation(raw string) (string, bool) {
	result := raw
	if first, rest, ok := strings.Cut(raw, "\n"); ok {
		result = strings.TrimSpace(first) + "\n" + dedent(rest)
	}
	result = strings.TrimSpace(result)
	return result, result != ""
}

// dedent removes the longest whitespace prefix shared by all non-blank
// lines of s. Lines holding only whitespace are emptied.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	if strings.HasSuffix(s, "\n") {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	var prefix string
	var rest []string
	for i, line := range lines {
		idx := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
		if idx >= 0 {
			prefix = line[:idx]
			rest = lines[i+1:]
			break
		}
	}

	for _, line := range rest {
		idx := commonPrefixLen(line, prefix)
		if idx < len(line) && idx < len(prefix) {
			prefix = line[:idx]
		}
	}

	var sb strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) && strings.TrimSpace(line) != "" {
			sb.WriteString(line[len(prefix):])
		}
		sb.WriteByte('\n')
	}
	out := sb.String()
	if !strings.HasSuffix(s, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// commonPrefixLen returns the byte length of the longest common prefix of
// a and b, measured on whole runes. It returns len(a) when a and b agree
// on every rune they share.
func commonPrefixLen(a, b string) int {
	br := []rune(b)
	i := 0
	for idx, r := range a {
		if i >= len(br) {
			break
		}
		if r != br[i] {
			return idx
		}
		i++
	}
	return len(a)
}
