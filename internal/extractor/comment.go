package extractor

import (
	"slices"
	"strings"

	"nixdoc/internal/syntax"
)

// RetrieveDocComment returns the comment immediately preceding node.
//
// A block comment is returned verbatim without its markers. Adjacent line
// comments are merged into one string, joined by single spaces; a blank
// line ends the chain. When allowLineComments is false, line comments are
// skipped backwards until a block comment is found, so that inline notes
// such as deprecation markers are not mistaken for documentation.
func RetrieveDocComment(node *syntax.Node, allowLineComments bool) (string, bool) {
	first := node.FirstToken()
	if first == nil {
		return "", false
	}
	tok := precedingComment(first)
	if tok == nil {
		return "", false
	}

	for !allowLineComments && syntax.IsLineComment(tok) {
		tok = precedingComment(tok)
		if tok == nil {
			return "", false
		}
	}

	if syntax.IsBlockComment(tok) {
		return syntax.CommentText(tok), true
	}
	return mergeLineComments(tok), true
}

// precedingComment returns the comment before tok, allowing at most one
// whitespace token in between.
func precedingComment(tok *syntax.Token) *syntax.Token {
	prev := tok.PrevToken()
	if prev != nil && prev.Kind() == syntax.TokenWhitespace {
		prev = prev.PrevToken()
	}
	if prev == nil || prev.Kind() != syntax.TokenComment {
		return nil
	}
	return prev
}

// mergeLineComments walks backwards from the last line comment of a chain
// while each earlier comment sits on the directly preceding line.
func mergeLineComments(last *syntax.Token) string {
	var parts []string
	tok := last
	for syntax.IsLineComment(tok) {
		parts = append(parts, strings.TrimSpace(syntax.CommentText(tok)))

		ws := tok.PrevToken()
		if ws == nil || ws.Kind() != syntax.TokenWhitespace {
			break
		}
		rest, ok := strings.CutPrefix(ws.Text(), "\n")
		if !ok || strings.Contains(rest, "\n") {
			break
		}
		tok = ws.PrevToken()
	}

	slices.Reverse(parts)
	return strings.Join(parts, " ")
}
