package digest

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// continuationIndent prefixes every line after the first of a message, and every link line.
const continuationIndent = "    "

// Render flattens contexts into prompt text, one block per context in input order.
// It is pure and total: the same contexts always yield the same bytes.
func Render(contexts []Context) string {
	var lines []string
	for _, c := range contexts {
		lines = appendContext(lines, c)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func appendContext(lines []string, c Context) []string {
	source := lo.CoalesceOrEmpty(c.Source, DefaultSource)
	timestamp := lo.CoalesceOrEmpty(c.Timestamp, DefaultTimestamp)
	lines = append(lines, fmt.Sprintf("=== %s @ %s ===", source, timestamp))

	for _, m := range c.Messages {
		author := lo.CoalesceOrEmpty(m.Author, DefaultAuthor)
		messageLines := splitLines(m.Content)
		lines = append(lines, fmt.Sprintf("%s: %s", author, messageLines[0]))
		for _, line := range messageLines[1:] {
			lines = append(lines, continuationIndent+line)
		}
	}

	for _, l := range c.Links {
		if l.URL != "" {
			postedBy := lo.CoalesceOrEmpty(l.PostedBy, DefaultPoster)
			lines = append(lines, fmt.Sprintf("%s[link] %s (posted by %s)", continuationIndent, l.URL, postedBy))
		}
		if l.Description != "" {
			lines = append(lines, fmt.Sprintf("%s[description] %s", continuationIndent, l.Description))
		}
	}

	return append(lines, "")
}

// splitLines splits on universal line boundaries (\n, \r\n, \r, \v, \f, the
// ASCII separators 0x1c-0x1e, NEL, LS and PS). A trailing boundary does not
// produce an empty final line. The result always has at least one element.
func splitLines(s string) []string {
	var lines []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if !isLineBoundary(runes[i]) {
			continue
		}
		lines = append(lines, string(runes[start:i]))
		if runes[i] == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		lines = append(lines, string(runes[start:]))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
