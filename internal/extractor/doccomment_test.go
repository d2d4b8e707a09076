package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocComment(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DocComment
	}{
		{
			name: "description only",
			raw:  " adds two numbers ",
			want: DocComment{Doc: "adds two numbers"},
		},
		{
			name: "text after a type line stays in the type section",
			raw:  "\n  Type: add :: int -> int -> int\n\n  Adds two numbers.\n",
			want: DocComment{Doc: "", Type: "add :: int -> int -> int\n\nAdds two numbers."},
		},
		{
			name: "description type and example",
			raw: " Adds two numbers.\n\n" +
				"   More detail here.\n\n" +
				"   Type: add :: int -> int -> int\n\n" +
				"   Example:\n" +
				"     add 1 2\n" +
				"     => 3\n" +
				" ",
			want: DocComment{
				Doc:     "Adds two numbers.\n\nMore detail here.",
				Type:    "add :: int -> int -> int",
				Example: "add 1 2\n=> 3",
			},
		},
		{
			name: "keyword on the first line",
			raw:  "Type: a -> a",
			want: DocComment{Type: "a -> a"},
		},
		{
			name: "keyword mid-line is plain text",
			raw:  " Returns the Type: of x",
			want: DocComment{Doc: "Returns the Type: of x"},
		},
		{
			name: "repeated type sections concatenate",
			raw:  " doc\n Type: a\n Type: b\n",
			want: DocComment{Doc: "doc", Type: "a\nb"},
		},
		{
			name: "whitespace-only description",
			raw:  "   \n   \n",
			want: DocComment{Doc: ""},
		},
		{
			name: "relative indentation is kept",
			raw:  " foo is\n  the value:\n    10\n  ",
			want: DocComment{Doc: "foo is\nthe value:\n  10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDocComment(tt.raw))
		})
	}
}

func TestHandleIndentation(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, ok := HandleIndentation("  \n \t\n")
		assert.False(t, ok)
	})

	t.Run("Single Line Kept Raw Then Trimmed", func(t *testing.T) {
		got, ok := HandleIndentation("   x  ")
		assert.True(t, ok)
		assert.Equal(t, "x", got)
	})

	t.Run("First Line Trimmed Independently", func(t *testing.T) {
		got, ok := HandleIndentation("      first\n    second\n      third\n")
		assert.True(t, ok)
		assert.Equal(t, "first\nsecond\n  third", got)
	})

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{
			" foo is\n  the value:\n    10\n  ",
			"Concatenate strings\n     with a separator\n\n       indented\n",
			"single",
		}
		for _, in := range inputs {
			once, ok := HandleIndentation(in)
			assert.True(t, ok)
			twice, ok := HandleIndentation(once)
			assert.True(t, ok)
			assert.Equal(t, once, twice, "input %q", in)
		}
	})
}

func TestDedent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  a\n  b", "a\nb"},
		{"  a\n    b\n", "a\n  b\n"},
		{"    a\n  \n    b", "a\n\nb"},
		{"\ta\n\tb", "a\nb"},
		{"  a\nb", "  a\nb"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dedent(tt.in), "dedent(%q)", tt.in)
	}
}
