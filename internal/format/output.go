package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names lists the accepted --format values.
var Names = []string{"json", "yaml", "text"}

// Valid reports whether name is an accepted format ("" means json).
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json", "yaml", "yml", "text":
		return true
	default:
		return false
	}
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - text (tables for tasks, YAML-ish for everything else)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(Names, "|"))
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
