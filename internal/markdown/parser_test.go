package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithFrontmatter(t *testing.T) {
	source := []byte("---\ntitle: About us\nlastUpdated: 2025-02-01\n---\n# Hello\n\nWe *teach*.\n")

	html, meta, err := NewParser().Parse(source)
	require.NoError(t, err)

	assert.Equal(t, "About us", meta["title"])
	assert.Contains(t, string(html), `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, string(html), "<em>teach</em>")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	html, meta, err := NewParser().Parse([]byte("plain"))
	require.NoError(t, err)

	assert.Empty(t, meta)
	assert.Contains(t, string(html), "<p>plain</p>")
}
