package newsletter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("**Title**\n\nSome text.")
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>Title</strong></p>\n<p>Some text.</p>", html)
}

func TestMarkdownToHTMLLinkify(t *testing.T) {
	html, err := MarkdownToHTML("see https://example.com/page")
	require.NoError(t, err)
	assert.Contains(t, html, `<a href="https://example.com/page">https://example.com/page</a>`)
}

func TestContainsMarkup(t *testing.T) {
	assert.True(t, containsMarkup("<ul></ul>"))
	assert.False(t, containsMarkup("- item"))
}
