// Package highlight colours documents shown in the detail pane.
package highlight

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	formatter = "terminal256"
	style     = "nord"
)

// JSON returns src highlighted for a 256-colour terminal. On any lexer
// failure the source is returned unchanged.
func JSON(src string) string {
	return Source(src, "json")
}

// Source highlights src with the named chroma lexer.
func Source(src, lexer string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, lexer, formatter, style); err != nil {
		return src
	}
	return strings.TrimRight(b.String(), "\n")
}

// Value indents v as JSON and highlights it.
func Value(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return JSON(string(data)), nil
}
