// Package processor reads, converts and writes GeoJSON documents.
package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/geocrs/pkg/geo"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

// Document encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const mediaJSON = "application/json"

// Output controls document encoding.
type Output struct {
	Format    string
	Precision int // significant digits kept in JSON numbers, 0 keeps all
	Indent    bool
}

// FormatFromPath guesses the encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a document in the given format.
func Decode(data []byte, format string) (*geo.Document, error) {
	var doc geo.Document

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if doc.Type == "" {
		return nil, fmt.Errorf("decode %s: document has no type", format)
	}

	return &doc, nil
}

// Encode serializes a document according to out.
// YAML output is reduced to Precision by a pass through the JSON minifier.
func Encode(doc *geo.Document, out Output) ([]byte, error) {
	if out.Format != FormatJSON && out.Format != FormatYAML && out.Format != "" {
		return nil, fmt.Errorf("unknown format %q", out.Format)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if out.Precision > 0 {
		data, err = reducePrecision(data, out.Precision)
		if err != nil {
			return nil, err
		}
	}

	if out.Format == FormatYAML {
		if out.Precision > 0 {
			if doc, err = Decode(data, FormatJSON); err != nil {
				return nil, err
			}
		}
		return yaml.Marshal(doc)
	}

	if out.Indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		data = buf.Bytes()
	}

	return data, nil
}

func reducePrecision(data []byte, precision int) ([]byte, error) {
	m := minify.New()
	m.Add(mediaJSON, &minjson.Minifier{Precision: precision})

	data, err := m.Bytes(mediaJSON, data)
	if err != nil {
		return nil, fmt.Errorf("minify: %w", err)
	}
	return data, nil
}

// ReadDocument reads a document from path, or from stdin when path is empty.
func ReadDocument(path, format string) (*geo.Document, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = FormatFromPath(path)
	}

	return Decode(data, format)
}

// WriteDocument writes a document to path, or to stdout when path is empty.
func WriteDocument(path string, doc *geo.Document, out Output) error {
	data, err := Encode(doc, out)
	if err != nil {
		return err
	}

	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	_, err = f.Write(data)
	return err
}
