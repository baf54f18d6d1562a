// Package format renders CLI payloads as JSON, EDN or plain text.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
	Text = "text"
)

// Texter is implemented by payloads with a human-readable rendering.
type Texter interface {
	Text() string
}

// Normalize maps a user-supplied format name to one of the known formats.
func Normalize(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	case Text, "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected json, edn or text)", name)
	}
}

// Write renders v in the requested format. Text falls back to JSON for
// payloads that are not a Texter.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text:
		if t, ok := v.(Texter); ok {
			return WriteText(w, t.Text())
		}
		return WriteJSON(w, v, true)
	default:
		return WriteJSON(w, v, pretty)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteText writes s with exactly one trailing newline (none for "").
func WriteText(w io.Writer, s string) error {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}
