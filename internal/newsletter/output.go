package newsletter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Payload is the document written next to the generated newsletter.
type Payload struct {
	LinkContent string `json:"LINK_CONTENT"`
}

// EncodePayload serializes html as {"LINK_CONTENT": html}. Markup characters
// are kept literal rather than escaped to < sequences.
func EncodePayload(html string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Payload{LinkContent: html}); err != nil {
		return nil, fmt.Errorf("failed to encode newsletter payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteResult replaces the file at path with the encoded payload.
func WriteResult(path string, html string) error {
	data, err := EncodePayload(html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
