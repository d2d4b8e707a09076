package generator

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"nixdoc/internal/extractor"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"MD", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{" json ", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{Format: FormatJSON}
	require.NoError(t, w.Write(&buf, "strings", "Strings", sampleEntries()))

	var decoded []extractor.ManualEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleEntries(), decoded)
}

func TestWriter_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{Format: FormatJSON}
	require.NoError(t, w.Write(&buf, "strings", "Strings", nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriter_YAML(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{Format: FormatYAML}
	require.NoError(t, w.Write(&buf, "strings", "Strings", sampleEntries()[:1]))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "concat", decoded[0]["name"])
	assert.Equal(t, "concat :: a -> b", decoded[0]["type"])
	args, ok := decoded[0]["args"].([]any)
	require.True(t, ok)
	assert.Len(t, args, 2)
}

func TestWriter_HTML(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{Format: FormatHTML}
	require.NoError(t, w.Write(&buf, "strings", "String functions", sampleEntries()))

	out := buf.String()
	assert.Contains(t, out, `<h1 id="sec-functions-library-strings">String functions</h1>`)
	assert.Contains(t, out, "<code>lib.strings.concat</code>")
	assert.Contains(t, out, "<p>Para one.</p>")
	assert.NotContains(t, out, "{#sec-functions-library-strings}")
}

func TestWriter_UnknownFormat(t *testing.T) {
	w := &Writer{Format: "pdf"}
	assert.Error(t, w.Write(&bytes.Buffer{}, "c", "d", nil))
}
