package syntax

import (
	"fmt"
	"iter"
	"strings"
)

// Element is either a *Node or a *Token.
type Element interface {
	Kind() Kind
	Parent() *Node
	Text() string
}

// Token is a leaf of the syntax tree. Tokens of a tree form one ordered
// sequence, so the token before a node can be found regardless of nesting.
type Token struct {
	kind   Kind
	text   string
	offset int
	index  int
	parent *Node
	tree   *Tree
}

func (t *Token) Kind() Kind { return t.kind }
func (t *Token) Text() string { return t.text }
func (t *Token) Offset() int { return t.offset }
func (t *Token) Parent() *Node { return t.parent }
func (t *Token) IsTrivia() bool { return t.kind.IsTrivia() }

// PrevToken returns the token immediately preceding t in source order,
// or nil if t is the first token.
func (t *Token) PrevToken() *Token {
	if t.index == 0 {
		return nil
	}
	return t.tree.tokens[t.index-1]
}

// NextToken returns the token immediately following t, or nil.
func (t *Token) NextToken() *Token {
	if t.index+1 >= len(t.tree.tokens) {
		return nil
	}
	return t.tree.tokens[t.index+1]
}

// Node is an inner element of the syntax tree.
type Node struct {
	kind     Kind
	children []Element
	parent   *Node
	tree     *Tree
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Parent() *Node { return n.parent }

// Elements returns all direct children, tokens included.
func (n *Node) Elements() []Element {
	return n.children
}

// Children returns the direct child nodes, skipping tokens.
func (n *Node) Children() []*Node {
	var nodes []*Node
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// FirstChild returns the first direct child node of the given kind.
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.children {
		if child, ok := c.(*Node); ok && child.kind == kind {
			return child
		}
	}
	return nil
}

// FirstChildToken returns the first direct child token of the given kind.
func (n *Node) FirstChildToken(kind Kind) *Token {
	for _, c := range n.children {
		if tok, ok := c.(*Token); ok && tok.kind == kind {
			return tok
		}
	}
	return nil
}

// ChildAfter returns the first child node that follows a direct child
// token of the given kind.
func (n *Node) ChildAfter(kind Kind) *Node {
	seen := false
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			if c.kind == kind {
				seen = true
			}
		case *Node:
			if seen {
				return c
			}
		}
	}
	return nil
}

// FirstToken returns the first token in n's subtree.
func (n *Node) FirstToken() *Token {
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			return c
		case *Node:
			if tok := c.FirstToken(); tok != nil {
				return tok
			}
		}
	}
	return nil
}

// LastToken returns the last token in n's subtree.
func (n *Node) LastToken() *Token {
	for i := len(n.children) - 1; i >= 0; i-- {
		switch c := n.children[i].(type) {
		case *Token:
			return c
		case *Node:
			if tok := c.LastToken(); tok != nil {
				return tok
			}
		}
	}
	return nil
}

// Offset is the byte offset of the node's first token.
func (n *Node) Offset() int {
	if tok := n.FirstToken(); tok != nil {
		return tok.offset
	}
	return 0
}

// Text returns the source text covered by the node, trivia included.
func (n *Node) Text() string {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil {
		return ""
	}
	return n.tree.src[first.offset : last.offset+len(last.text)]
}

// Preorder yields n and all of its descendant nodes in pre-order.
func (n *Node) Preorder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if child, ok := c.(*Node); ok {
			if !child.walk(yield) {
				return false
			}
		}
	}
	return true
}

// Tree is the immutable result of parsing one source text.
type Tree struct {
	src    string
	root   *Node
	tokens []*Token
}

func (t *Tree) Root() *Node { return t.root }
func (t *Tree) Source() string { return t.src }
func (t *Tree) Tokens() []*Token { return t.tokens }

// Dump renders the tree as an indented outline, one element per line.
func (t *Tree) Dump() string {
	var sb strings.Builder
	dumpElement(&sb, t.root, 0)
	return sb.String()
}

func dumpElement(sb *strings.Builder, e Element, depth int) {
	indent := strings.Repeat("  ", depth)
	switch e := e.(type) {
	case *Token:
		fmt.Fprintf(sb, "%s%s@%d %q\n", indent, e.kind, e.offset, e.text)
	case *Node:
		fmt.Fprintf(sb, "%s%s@%d\n", indent, e.kind, e.Offset())
		for _, c := range e.children {
			dumpElement(sb, c, depth+1)
		}
	}
}

// builder assembles a tree from a token stream. Nodes are opened and closed
// in stack order; checkpoints allow wrapping already-built children into a
// new node, which is how left-associative constructs are formed.
type builder struct {
	tree  *Tree
	stack []*Node
}

func newBuilder(src string) *builder {
	return &builder{tree: &Tree{src: src}}
}

func (b *builder) current() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *builder) startNode(kind Kind) {
	n := &Node{kind: kind, tree: b.tree}
	if len(b.stack) == 0 {
		b.tree.root = n
	} else {
		parent := b.current()
		n.parent = parent
		parent.children = append(parent.children, n)
	}
	b.stack = append(b.stack, n)
}

// finishNode closes the current node. Trivia collected at its end belongs
// between this node and the next one, so it is handed to the parent.
func (b *builder) finishNode() {
	n := b.current()
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		return
	}

	i := len(n.children)
	for i > 0 {
		tok, ok := n.children[i-1].(*Token)
		if !ok || !tok.IsTrivia() {
			break
		}
		i--
	}
	if i == 0 || i == len(n.children) {
		return
	}

	parent := b.current()
	for _, c := range n.children[i:] {
		c.(*Token).parent = parent
		parent.children = append(parent.children, c)
	}
	n.children = n.children[:i]
}

func (b *builder) token(kind Kind, text string, offset int) {
	parent := b.current()
	tok := &Token{
		kind:   kind,
		text:   text,
		offset: offset,
		index:  len(b.tree.tokens),
		parent: parent,
		tree:   b.tree,
	}
	b.tree.tokens = append(b.tree.tokens, tok)
	parent.children = append(parent.children, tok)
}

func (b *builder) checkpoint() int {
	return len(b.current().children)
}

func (b *builder) startNodeAt(checkpoint int, kind Kind) {
	parent := b.current()
	n := &Node{kind: kind, tree: b.tree, parent: parent}
	n.children = append(n.children, parent.children[checkpoint:]...)
	for _, c := range n.children {
		switch c := c.(type) {
		case *Token:
			c.parent = n
		case *Node:
			c.parent = n
		}
	}
	parent.children = append(parent.children[:checkpoint], n)
	b.stack = append(b.stack, n)
}
