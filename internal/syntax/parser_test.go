package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstOfKind(t *testing.T, tree *Tree, kind Kind) *Node {
	t.Helper()
	for n := range tree.Root().Preorder() {
		if n.Kind() == kind {
			return n
		}
	}
	t.Fatalf("no %s node in tree:\n%s", kind, tree.Dump())
	return nil
}

func TestParse_RoundTrip(t *testing.T) {
	src := `{ lib }:
let
  inherit (builtins) head tail;

  /* Concatenate strings */
  concat = a: b: a + b;
in rec {
  # Identity.
  id = x: x;

  inherit concat;

  nested.attr = if true then [ 1 2 (3 + 4) ] else { };
  withDefault = { a ? 1, b, ... }@args: a // args;
  interp = "pre ${toString 1} post";
  sel = lib.attrsets.foo or null;
  has = args ? a && !false;
  neg = -1;
}
`
	tree, err := Parse(src)
	require.NoError(t, err, tree.Dump())
	assert.Equal(t, src, tree.Root().Text())

	var text string
	for _, tok := range tree.Tokens() {
		text += tok.Text()
	}
	assert.Equal(t, src, text)
}

func TestParse_NodesNeverStartOrEndWithTrivia(t *testing.T) {
	src := "{\n  # doc\n  f = { a, b ? 1 }: a + b;  # trailing\n  g = x: /* inner */ x;\n\n}\n"
	tree, err := Parse(src)
	require.NoError(t, err)

	for n := range tree.Root().Preorder() {
		if n == tree.Root() {
			continue
		}
		assert.False(t, n.FirstToken().IsTrivia(), "%s starts with trivia", n.Kind())
		assert.False(t, n.LastToken().IsTrivia(), "%s ends with trivia", n.Kind())
	}
}

func TestParse_AttrSetBinding(t *testing.T) {
	tree, err := Parse(`{ /* adds two numbers */ add = a: b: a + b; }`)
	require.NoError(t, err)

	set, ok := AsAttrSet(firstOfKind(t, tree, NodeAttrSet))
	require.True(t, ok)
	require.Len(t, set.Children(), 1)

	apv, ok := AsAttrpathValue(set.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "add", apv.Attrpath().Text())
	assert.Equal(t, NodeLambda, apv.Value().Kind())

	// The binding's first token is the identifier, preceded by whitespace
	// and then the comment.
	first := apv.FirstToken()
	assert.Equal(t, "add", first.Text())
	assert.Equal(t, TokenWhitespace, first.PrevToken().Kind())
	assert.Equal(t, "/* adds two numbers */", first.PrevToken().PrevToken().Text())
}

func TestParse_CurriedLambda(t *testing.T) {
	tree, err := Parse(`a: b: a + b`)
	require.NoError(t, err)

	outer, ok := AsLambda(tree.Root().Children()[0])
	require.True(t, ok)
	param, ok := AsIdentParam(outer.Param())
	require.True(t, ok)
	assert.Equal(t, "a", IdentName(param.Ident()))

	inner, ok := AsLambda(outer.Body())
	require.True(t, ok)
	assert.Equal(t, NodeBinOp, inner.Body().Kind())
}

func TestParse_Pattern(t *testing.T) {
	tree, err := Parse("{ x, # the y\n y ? 2, ... } @ args: x")
	require.NoError(t, err)

	lambda, ok := AsLambda(firstOfKind(t, tree, NodeLambda))
	require.True(t, ok)
	pat, ok := AsPattern(lambda.Param())
	require.True(t, ok)

	entries := pat.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "x", IdentName(entries[0].Ident()))
	assert.Equal(t, "y", IdentName(entries[1].Ident()))
	assert.Nil(t, entries[0].Default())
	assert.Equal(t, "2", entries[1].Default().Text())
	assert.True(t, pat.Ellipsis())
	assert.Equal(t, "args", IdentName(pat.Bind()))
}

func TestParse_PatternVersusAttrSet(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"{ }: 1", NodeLambda},
		{"{ }", NodeAttrSet},
		{"{ a }: a", NodeLambda},
		{"{ a, b }: a", NodeLambda},
		{"{ a ? 1 }: a", NodeLambda},
		{"{ ... }: 1", NodeLambda},
		{"{ a = 1; }", NodeAttrSet},
		{"{ inherit a; }", NodeAttrSet},
		{"args@{ a }: a", NodeLambda},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, err := Parse(tt.src)
			require.NoError(t, err, tree.Dump())
			assert.Equal(t, tt.want, tree.Root().Children()[0].Kind())
		})
	}
}

func TestParse_LetInAndInherit(t *testing.T) {
	tree, err := Parse("let helper = x: x; in { inherit helper; inherit (someSet) other; }")
	require.NoError(t, err)

	let, ok := AsLetIn(firstOfKind(t, tree, NodeLetIn))
	require.True(t, ok)
	require.Len(t, let.Children(), 2)
	_, ok = AsAttrSet(let.Body())
	require.True(t, ok)

	var inherits []Inherit
	for _, c := range let.Body().Children() {
		if inh, ok := AsInherit(c); ok {
			inherits = append(inherits, inh)
		}
	}
	require.Len(t, inherits, 2)

	assert.Nil(t, inherits[0].From())
	require.Len(t, inherits[0].Attrs(), 1)
	assert.Equal(t, "helper", IdentName(inherits[0].Attrs()[0]))

	assert.NotNil(t, inherits[1].From())
	assert.Equal(t, "other", IdentName(inherits[1].Attrs()[0]))
}

func TestParse_Precedence(t *testing.T) {
	tree, err := Parse("a + b * c")
	require.NoError(t, err)

	root := tree.Root().Children()[0]
	require.Equal(t, NodeBinOp, root.Kind())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[0].Text())
	assert.Equal(t, NodeBinOp, children[1].Kind())
	assert.Equal(t, "b * c", children[1].Text())
}

func TestParse_Application(t *testing.T) {
	tree, err := Parse("f x.y (g 1)")
	require.NoError(t, err)

	outer := tree.Root().Children()[0]
	require.Equal(t, NodeApply, outer.Kind())
	inner := outer.Children()[0]
	require.Equal(t, NodeApply, inner.Kind())
	assert.Equal(t, "f x.y", inner.Text())
	assert.Equal(t, NodeSelect, inner.Children()[1].Kind())
	assert.Equal(t, NodeParen, outer.Children()[1].Kind())
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"{ a = ; }",
		"let a = 1;",
		"x: ",
		"[ 1 2",
		`"abc`,
		"{ a = 1; } }",
		"if a then b",
		"{ a, 1 }: a",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			var tree *Tree
			var err error
			require.NotPanics(t, func() { tree, err = Parse(src) })
			assert.Error(t, err)
			require.NotNil(t, tree)
			assert.Equal(t, src, tree.Root().Text())
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("{\n  a = ;\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2:7")
}
