package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(src string, toks []lexToken) []Kind {
	var kinds []Kind
	for _, t := range toks {
		if t.kind == TokenWhitespace {
			continue
		}
		kinds = append(kinds, t.kind)
	}
	return kinds
}

func TestTokenize_Lossless(t *testing.T) {
	inputs := []string{
		`{ /* adds two numbers */ add = a: b: a + b; }`,
		"let\n  # helper\n  helper = x: x;\nin { inherit helper; }",
		`"hello ${name}!" + ''indented ''${literal} ${x}''`,
		`{ a ? 1, b, ... }@args: a // b`,
		`./foo/bar.nix <nixpkgs> ~/x https://example.org 1.5 42`,
	}
	for _, src := range inputs {
		toks, errs := tokenize(src)
		require.Empty(t, errs, src)

		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(src[tok.start:tok.end])
		}
		assert.Equal(t, src, sb.String())
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "lambda",
			src:  "a: b: a + b",
			want: []Kind{TokenIdent, TokenColon, TokenIdent, TokenColon, TokenIdent, TokenAdd, TokenIdent},
		},
		{
			name: "uri beats identifier",
			src:  "x:x",
			want: []Kind{TokenURI},
		},
		{
			name: "path beats identifier",
			src:  "lib/strings.nix",
			want: []Kind{TokenPath},
		},
		{
			name: "update operator is not a path",
			src:  "a // b",
			want: []Kind{TokenIdent, TokenUpdate, TokenIdent},
		},
		{
			name: "keywords",
			src:  "let x = 1; in rec { inherit (x) y; }",
			want: []Kind{
				TokenLet, TokenIdent, TokenAssign, TokenInteger, TokenSemicolon, TokenIn,
				TokenRec, TokenLBrace, TokenInherit, TokenLParen, TokenIdent, TokenRParen,
				TokenIdent, TokenSemicolon, TokenRBrace,
			},
		},
		{
			name: "comments",
			src:  "# line\n/* block */ x",
			want: []Kind{TokenComment, TokenComment, TokenIdent},
		},
		{
			name: "string interpolation with nested braces",
			src:  `"a${ { b = 1; }.b }c"`,
			want: []Kind{
				TokenStringStart, TokenStringContent, TokenInterpolStart,
				TokenLBrace, TokenIdent, TokenAssign, TokenInteger, TokenSemicolon, TokenRBrace,
				TokenDot, TokenIdent, TokenInterpolEnd, TokenStringContent, TokenStringEnd,
			},
		},
		{
			name: "indented string escapes",
			src:  "''a'''b''${c}''$d''",
			want: []Kind{TokenStringStart, TokenStringContent, TokenStringEnd},
		},
		{
			name: "identifiers with primes and dashes",
			src:  "foldl' my-fn",
			want: []Kind{TokenIdent, TokenIdent},
		},
		{
			name: "ellipsis and at",
			src:  "{ ... }@args",
			want: []Kind{TokenLBrace, TokenEllipsis, TokenRBrace, TokenAt, TokenIdent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, errs := tokenize(tt.src)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, kindsOf(tt.src, toks))
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Run("unterminated string", func(t *testing.T) {
		_, errs := tokenize(`"abc`)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "string")
	})

	t.Run("unterminated block comment", func(t *testing.T) {
		toks, errs := tokenize("/* abc")
		require.Len(t, errs, 1)
		require.Len(t, toks, 1)
		assert.Equal(t, TokenComment, toks[0].kind)
	})

	t.Run("stray character", func(t *testing.T) {
		_, errs := tokenize("a ` b")
		require.Len(t, errs, 1)
		var synErr *Error
		require.ErrorAs(t, errs[0], &synErr)
		assert.Equal(t, 1, synErr.Line)
		assert.Equal(t, 3, synErr.Column)
	})
}
