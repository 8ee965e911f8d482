package newsletter

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/atinylittleshell/newsletter/internal/config"
)

// UserPromptPrefix precedes the rendered contexts in the user message.
const UserPromptPrefix = "Create the newsletter from these Discord snippets:\n\n"

const systemPromptTemplate = `
You are a newsletter editor for the newsletter of a maker community called '{{wrapName .Community}}'. Read chat excerpts that contain shared links and their descriptions.

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
    <a href="https://link/to/the/page">https://link/to/the/page</a> <span class="poster">by {{.Poster}}.</span>
  </li>
`

var systemPrompt = template.Must(template.New("system").
	Funcs(template.FuncMap{"wrapName": wrapName}).
	Parse(systemPromptTemplate))

// wrapName breaks a multi-word community name at its last space; the opening
// line of the instruction wraps inside the name.
func wrapName(name string) string {
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[:i] + "\n" + name[i+1:]
}

// BuildSystemPrompt renders the built-in editor instruction for a community.
// The poster is the example username shown in the credit line.
func BuildSystemPrompt(community string, poster string) (string, error) {
	var b strings.Builder
	err := systemPrompt.Execute(&b, struct {
		Community string
		Poster    string
	}{community, poster})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// LoadSystemPrompt returns the system instruction for cfg: the contents of
// SystemFile when set, otherwise the built-in template.
func LoadSystemPrompt(cfg config.PromptConfig) (string, error) {
	if cfg.SystemFile == "" {
		return BuildSystemPrompt(cfg.Community, cfg.Poster)
	}

	content, err := os.ReadFile(cfg.SystemFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file %s is empty", cfg.SystemFile)
	}
	return prompt, nil
}

// BuildMessages pairs the system instruction with the rendered contexts.
func BuildMessages(system string, rendered string) []ChatMessage {
	return []ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: UserPromptPrefix + rendered},
	}
}
