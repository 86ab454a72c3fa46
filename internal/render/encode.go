package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/bringup/internal/launch"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format '%s': must be 'yaml' or 'json'", s)
	}
}

// Encode writes d to w in the given format.
func Encode(w io.Writer, d *launch.Description, format Format) error {
	doc, err := Build(d)
	if err != nil {
		return err
	}
	return EncodeDocument(w, doc, format)
}

// EncodeDocument writes an already built document.
func EncodeDocument(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format '%s'", format)
	}
}
