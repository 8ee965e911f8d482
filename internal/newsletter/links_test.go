package newsletter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNewsletter = `<ul class="link-list">
  <li>
    <strong>A Better Soldering Iron</strong>
    <p>A teardown of a cheap
       USB-C iron.</p>
    <a href="https://example.com/iron">https://example.com/iron</a> <span class="poster">by alice.</span>
  </li>
  <li>
    <strong>Laser Cutter Tips</strong>
    <p>First paragraph.</p>
    <p>Second paragraph.</p>
    <a href="https://example.com/laser">https://example.com/laser</a> <span class="poster">Posted by bob</span>
  </li>
</ul>`

func TestExtractLinks(t *testing.T) {
	payload, err := ExtractLinks(sampleNewsletter)
	require.NoError(t, err)
	require.Len(t, payload.Links, 2)

	assert.Equal(t, NewsletterLink{
		Title:       "A Better Soldering Iron",
		Description: "A teardown of a cheap USB-C iron.",
		URL:         "https://example.com/iron",
		PostedBy:    "alice",
	}, payload.Links[0])

	assert.Equal(t, NewsletterLink{
		Title:       "Laser Cutter Tips",
		Description: "First paragraph.\n\nSecond paragraph.",
		URL:         "https://example.com/laser",
		PostedBy:    "bob",
	}, payload.Links[1])
}

func TestExtractLinksMissingFields(t *testing.T) {
	payload, err := ExtractLinks(`<ul><li>just text</li></ul>`)
	require.NoError(t, err)
	require.Len(t, payload.Links, 1)
	assert.Equal(t, NewsletterLink{}, payload.Links[0])
}

func TestExtractLinksNoList(t *testing.T) {
	payload, err := ExtractLinks("Nothing worth sharing this week.")
	require.NoError(t, err)
	assert.Empty(t, payload.Links)
	assert.NotNil(t, payload.Links)
}

func TestPosterName(t *testing.T) {
	assert.Equal(t, "Stavros", posterName("by Stavros."))
	assert.Equal(t, "Stavros", posterName("  by   Stavros. "))
	assert.Equal(t, "carol", posterName("Posted by carol"))
	assert.Equal(t, "", posterName(""))
}
