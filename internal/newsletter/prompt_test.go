package newsletter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinylittleshell/newsletter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPromptDefaults(t *testing.T) {
	prompt, err := BuildSystemPrompt(config.DefaultCommunity, config.DefaultPoster)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "You are a newsletter editor for the newsletter of a maker community called 'The\nMakery'. Read chat excerpts"))
	assert.Contains(t, prompt, `<span class="poster">by Stavros.</span>`)
	assert.Contains(t, prompt, "ul.link-list > li")
	assert.Equal(t, strings.TrimSpace(prompt), prompt)
}

const makeryPrompt = `You are a newsletter editor for the newsletter of a maker community called 'The
Makery'. Read chat excerpts that contain shared links and their descriptions.

- Decide which links are worth including (educational, insightful, noteworthy).
- Drop broken or spammy links.
- Group related links together and keep things concise. Feel free to put the
  links in whatever order makes the most sense.
- Return an HTML list (ul.link-list > li) with a short title and bullets. Do mention a few words
  about each link, anything you can gather from its description and the messages in the
  context. Don't say things you aren't sure about, but do try to make it a bit less dry
  than just a link description.
- Include credit for who shared the link using the provided username (e.g., "Posted by username").
- Do not include a header, footer, or anything else apart from the list of links.
- Give the links the following structure:
  <li>
    <strong>Title with proper case</strong>
    <p>Description sentences/paragraphs.</p>
    <a href="https://link/to/the/page">https://link/to/the/page</a> <span class="poster">by Stavros.</span>
  </li>`

func TestBuildSystemPromptMatchesMakeryText(t *testing.T) {
	prompt, err := BuildSystemPrompt("The Makery", "Stavros")
	require.NoError(t, err)
	assert.Equal(t, makeryPrompt, prompt)
}

func TestWrapName(t *testing.T) {
	assert.Equal(t, "The\nMakery", wrapName("The Makery"))
	assert.Equal(t, "Bay Area\nMakers", wrapName("Bay Area Makers"))
	assert.Equal(t, "Hackspace", wrapName("Hackspace"))
}

func TestBuildSystemPromptCustomCommunity(t *testing.T) {
	prompt, err := BuildSystemPrompt("Hackspace", "ada")
	require.NoError(t, err)

	assert.Contains(t, prompt, "called 'Hackspace'")
	assert.Contains(t, prompt, `<span class="poster">by ada.</span>`)
	assert.NotContains(t, prompt, "The Makery")
}

func TestLoadSystemPrompt(t *testing.T) {
	t.Run("built-in template", func(t *testing.T) {
		prompt, err := LoadSystemPrompt(config.DefaultConfig().Prompt)
		require.NoError(t, err)
		expected, _ := BuildSystemPrompt(config.DefaultCommunity, config.DefaultPoster)
		assert.Equal(t, expected, prompt)
	})

	t.Run("system file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "system.txt")
		require.NoError(t, os.WriteFile(path, []byte("\n  Write a list.\n"), 0644))

		prompt, err := LoadSystemPrompt(config.PromptConfig{SystemFile: path, Community: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "Write a list.", prompt)
	})

	t.Run("empty system file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "system.txt")
		require.NoError(t, os.WriteFile(path, []byte(" \n"), 0644))

		_, err := LoadSystemPrompt(config.PromptConfig{SystemFile: path})
		assert.Error(t, err)
	})

	t.Run("missing system file", func(t *testing.T) {
		_, err := LoadSystemPrompt(config.PromptConfig{SystemFile: filepath.Join(t.TempDir(), "nope.txt")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBuildMessages(t *testing.T) {
	messages := BuildMessages("sys", "=== general @ t ===\nSam: hi")
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "sys", messages[0].Content)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "Create the newsletter from these Discord snippets:\n\n=== general @ t ===\nSam: hi", messages[1].Content)
}
