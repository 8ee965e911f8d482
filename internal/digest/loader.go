package digest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/term"
)

var (
	// ErrInvalidShape is returned when the input is neither {"contexts": [...]} nor a bare array.
	ErrInvalidShape = errors.New("input JSON must include a 'contexts' array")
	// ErrNoContexts is returned when the contexts array is empty.
	ErrNoContexts = errors.New("no link contexts found in input JSON")
)

// StdinPath is the input path that reads from standard input.
const StdinPath = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Load parses raw JSON into an ordered list of contexts. Both
// {"contexts": [...]} and a bare top-level array are accepted.
func Load(data []byte) ([]Context, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}

	var raw json.RawMessage
	switch doc.(type) {
	case map[string]any:
		fields := decodeObject(data)
		raw = fields["contexts"]
	case []any:
		raw = data
	}

	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, ErrInvalidShape
	}
	if len(items) == 0 {
		return nil, ErrNoContexts
	}

	contexts := make([]Context, len(items))
	for i, item := range items {
		_ = contexts[i].UnmarshalJSON(item)
	}
	return contexts, nil
}

// LoadFile reads contexts from a file, or from stdin when path is "-".
// Gzip and zstd compressed dumps are decompressed transparently.
func LoadFile(path string) ([]Context, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	data, err = decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}

	return Load(data)
}

func readInput(path string) ([]byte, error) {
	if path != StdinPath {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("refusing to read contexts from an interactive terminal; pipe a JSON file into stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case bytes.HasPrefix(data, zstdMagic):
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		return d.DecodeAll(data, nil)
	default:
		return data, nil
	}
}
