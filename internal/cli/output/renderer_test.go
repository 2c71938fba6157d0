package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{" json ", ModeJSON},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty pipe", "", false, ModeMarkdown},
		{"explicit text", ModeText, false, ModeText},
		{"explicit json", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_NonTTYHasNoEscapes(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Checks")
	r.Success("done")
	r.StatusLine("a", "success", "2 problems")
	r.Warning("careful")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Checks")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "✓ a  2 problems")
	assert.Contains(t, errOut.String(), "careful")
}

func TestRenderer_MarkdownMode(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(2, "Datasets")
	r.StatusLine("a", "failed", "bad ttl")
	r.Error("boom")

	assert.Contains(t, out.String(), "## Datasets")
	assert.Contains(t, out.String(), "- [failed] a (bad ttl)")
	assert.Equal(t, "Error: boom\n", errOut.String())
}

func TestRenderer_Table(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"check", "name"}, [][]string{{"char", "Characters"}})
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "char")
		assert.Contains(t, out.String(), "Characters")
	})

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table([]string{"check", "name"}, [][]string{{"char", "Characters"}})
		assert.Contains(t, out.String(), "| char")
		assert.Contains(t, out.String(), "| ---")
		assert.NotContains(t, out.String(), "┌")
	})
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"problems": 3}))
	assert.Equal(t, "{\n  \"problems\": 3\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
	assert.Equal(t, "- **Datasets:** 3", FormatKeyValue("Datasets", "3"))
}
