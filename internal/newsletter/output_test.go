package newsletter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsletter_context.json")
	html := `<ul class="link-list"><li><a href="https://a.example/?x=1&y=2">a</a></li></ul>`

	require.NoError(t, WriteResult(path, html))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"LINK_CONTENT":"<ul class=\"link-list\"><li><a href=\"https://a.example/?x=1&y=2\">a</a></li></ul>"}`, string(data))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, map[string]string{"LINK_CONTENT": html}, payload)
}

func TestWriteResultOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"LINK_CONTENT":"old and much longer content"}`), 0644))

	require.NoError(t, WriteResult(path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"LINK_CONTENT":"new"}`, string(data))
}

func TestWriteResultUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteResult(path, "<p>café ☕\nline</p>"))

	var payload Payload
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "<p>café ☕\nline</p>", payload.LinkContent)
}

func TestWriteResultMissingDirectory(t *testing.T) {
	err := WriteResult(filepath.Join(t.TempDir(), "missing", "out.json"), "x")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
