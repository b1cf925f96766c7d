package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	r := NewRenderer()

	out, err := r.Markdown("## Prepare\n\n- research the company\n- **practice** answers")
	require.NoError(t, err)
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "<li>research the company</li>")
	assert.Contains(t, out, "<strong>practice</strong>")
}

func TestMarkdown_StripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Markdown("[click](javascript:alert(1))\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestPlainText(t *testing.T) {
	r := NewRenderer()

	assert.Equal(t, "Hello there", r.PlainText("  <b>Hello</b> there<script>alert(1)</script> "))
	assert.Equal(t, "Tom & Jerry", r.PlainText("Tom & Jerry"))
	assert.Equal(t, "", r.PlainText(""))
}
