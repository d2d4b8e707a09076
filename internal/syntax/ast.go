package syntax

import "strings"

// Typed views over untyped nodes. Each As* function reports whether the
// node has the matching kind; the views only read the tree.

type LetIn struct{ *Node }

func AsLetIn(n *Node) (LetIn, bool) {
	if n == nil || n.kind != NodeLetIn {
		return LetIn{}, false
	}
	return LetIn{n}, true
}

// Body is the expression following `in`.
func (l LetIn) Body() *Node {
	return l.ChildAfter(TokenIn)
}

type AttrSet struct{ *Node }

func AsAttrSet(n *Node) (AttrSet, bool) {
	if n == nil || n.kind != NodeAttrSet {
		return AttrSet{}, false
	}
	return AttrSet{n}, true
}

// IsRecursive reports whether the set is declared with `rec`.
func (s AttrSet) IsRecursive() bool {
	return s.FirstChildToken(TokenRec) != nil
}

// AttrpathValue is a `path = value;` binding.
type AttrpathValue struct{ *Node }

func AsAttrpathValue(n *Node) (AttrpathValue, bool) {
	if n == nil || n.kind != NodeAttrpathValue {
		return AttrpathValue{}, false
	}
	return AttrpathValue{n}, true
}

func (a AttrpathValue) Attrpath() *Node {
	return a.FirstChild(NodeAttrpath)
}

func (a AttrpathValue) Value() *Node {
	return a.ChildAfter(TokenAssign)
}

// Inherit is an `inherit [(from)] names;` clause.
type Inherit struct{ *Node }

func AsInherit(n *Node) (Inherit, bool) {
	if n == nil || n.kind != NodeInherit {
		return Inherit{}, false
	}
	return Inherit{n}, true
}

// From returns the parenthesised source expression, or nil.
func (i Inherit) From() *Node {
	return i.FirstChild(NodeInheritFrom)
}

// Attrs returns the inherited keys: identifiers, strings or dynamic keys.
func (i Inherit) Attrs() []*Node {
	var attrs []*Node
	for _, c := range i.Children() {
		switch c.kind {
		case NodeIdent, NodeString, NodeDynamic:
			attrs = append(attrs, c)
		}
	}
	return attrs
}

type Lambda struct{ *Node }

func AsLambda(n *Node) (Lambda, bool) {
	if n == nil || n.kind != NodeLambda {
		return Lambda{}, false
	}
	return Lambda{n}, true
}

// Param returns the IdentParam or Pattern node, or nil in a broken tree.
func (l Lambda) Param() *Node {
	for _, c := range l.Children() {
		if c.kind == NodeIdentParam || c.kind == NodePattern {
			return c
		}
	}
	return nil
}

func (l Lambda) Body() *Node {
	return l.ChildAfter(TokenColon)
}

type IdentParam struct{ *Node }

func AsIdentParam(n *Node) (IdentParam, bool) {
	if n == nil || n.kind != NodeIdentParam {
		return IdentParam{}, false
	}
	return IdentParam{n}, true
}

func (p IdentParam) Ident() *Node {
	return p.FirstChild(NodeIdent)
}

// Pattern is a destructuring parameter `{ a, b ? d, ... } @ bind`.
type Pattern struct{ *Node }

func AsPattern(n *Node) (Pattern, bool) {
	if n == nil || n.kind != NodePattern {
		return Pattern{}, false
	}
	return Pattern{n}, true
}

func (p Pattern) Entries() []PatEntry {
	var entries []PatEntry
	for _, c := range p.Children() {
		if c.kind == NodePatEntry {
			entries = append(entries, PatEntry{c})
		}
	}
	return entries
}

// Ellipsis reports whether the pattern accepts extra attributes.
func (p Pattern) Ellipsis() bool {
	return p.FirstChildToken(TokenEllipsis) != nil
}

// Bind returns the identifier bound with `@`, or nil.
func (p Pattern) Bind() *Node {
	if b := p.FirstChild(NodePatBind); b != nil {
		return b.FirstChild(NodeIdent)
	}
	return nil
}

type PatEntry struct{ *Node }

func (e PatEntry) Ident() *Node {
	return e.FirstChild(NodeIdent)
}

// Default returns the `? default` expression, or nil.
func (e PatEntry) Default() *Node {
	return e.ChildAfter(TokenQuestion)
}

// IdentName returns the name of an identifier node.
func IdentName(n *Node) string {
	if tok := n.FirstToken(); tok != nil {
		return tok.text
	}
	return ""
}

// IsLineComment reports whether tok is a `#` comment.
func IsLineComment(tok *Token) bool {
	return tok != nil && tok.kind == TokenComment && strings.HasPrefix(tok.text, "#")
}

// IsBlockComment reports whether tok is a `/* */` comment.
func IsBlockComment(tok *Token) bool {
	return tok != nil && tok.kind == TokenComment && strings.HasPrefix(tok.text, "/*")
}

// CommentText strips the comment markers from a comment token.
func CommentText(tok *Token) string {
	if s, ok := strings.CutPrefix(tok.text, "#"); ok {
		return s
	}
	s := strings.TrimPrefix(tok.text, "/*")
	return strings.TrimSuffix(s, "*/")
}
