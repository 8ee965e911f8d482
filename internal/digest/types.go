// Package digest loads chat link dumps and flattens them into prompt text.
package digest

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Defaults substituted for empty fields at render time.
const (
	DefaultSource    = "unknown file"
	DefaultTimestamp = "unknown time"
	DefaultAuthor    = "Unknown"
	DefaultPoster    = "Unknown"
)

// Context is one batch of chat activity: a source/time window with its messages and links.
// Empty string fields mean "absent"; Render substitutes the defaults.
type Context struct {
	Source    string    `json:"source"`
	Timestamp string    `json:"timestamp"`
	Messages  []Message `json:"messages"`
	Links     []Link    `json:"links"`
}

// Message is a single chat message. Content may span multiple lines.
type Message struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Link is a shared URL with its description and poster.
type Link struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	PostedBy    string `json:"posted_by"`
}

// UnmarshalJSON decodes a context leniently. It never fails: malformed
// fields and non-object input decode as absent.
func (c *Context) UnmarshalJSON(data []byte) error {
	fields := decodeObject(data)
	*c = Context{
		Source:    textField(fields["source"]),
		Timestamp: textField(fields["timestamp"]),
		Messages:  decodeList[Message](fields["messages"]),
		Links:     decodeList[Link](fields["links"]),
	}
	return nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	fields := decodeObject(data)
	*m = Message{
		Author:  textField(fields["author"]),
		Content: textField(fields["content"]),
	}
	return nil
}

func (l *Link) UnmarshalJSON(data []byte) error {
	fields := decodeObject(data)
	*l = Link{
		URL:         textField(fields["url"]),
		Description: textField(fields["description"]),
		PostedBy:    textField(fields["posted_by"]),
	}
	return nil
}

// decodeObject returns the members of a JSON object, or nil for anything else.
func decodeObject(data []byte) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// decodeList decodes a JSON array element by element. Non-arrays yield nil.
func decodeList[T any, PT interface {
	*T
	json.Unmarshaler
}](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		// Element decoders never fail.
		_ = PT(&out[i]).UnmarshalJSON(item)
	}
	return out
}

// textField converts a raw JSON value to display text. Empty values (null,
// "", false, 0, [], {}) become "" so the caller's default applies.
func textField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return ""
	}

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case json.Number:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case []any:
		if len(v) == 0 {
			return ""
		}
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}
