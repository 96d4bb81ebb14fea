package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_RendersFormatting(t *testing.T) {
	m := NewMarkdown()
	out, err := m.ToHTML("**Mouse** quebrado\nsegunda linha")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Mouse</strong>")
	assert.Contains(t, out, "<br")
}

func TestMarkdown_SafeStripsScripts(t *testing.T) {
	m := NewMarkdown()
	out := string(m.Safe("oi <script>alert('x')</script> [link](javascript:alert(1))"))
	assert.NotContains(t, out, "<script")
	assert.False(t, strings.Contains(out, "javascript:"))
	assert.Contains(t, out, "oi")
}
