package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// JSONWriter outputs the whole audit as JSON for tool integration.
// HTML in finding contexts is written as is, not escaped.
type JSONWriter struct {
	baseWriter

	// indentString is the indentation per level; empty means compact.
	indentString string

	// version, when set, wraps the audit together with the tool version.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentString = "  "
	}
}

// WithVersion wraps the audit in a JSONReport carrying version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the audit together with the version that produced it.
type JSONReport struct {
	Version string       `json:"version"`
	Audit   *model.Audit `json:"audit"`
}

// Write outputs the audit in JSON format.
func (w *JSONWriter) Write(audit *model.Audit) (int, error) {
	if w.version != "" {
		return w.writeJSON(JSONReport{Version: w.version, Audit: audit})
	}
	return w.writeJSON(audit)
}

// writeJSON encodes v with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indentString != "" {
		enc.SetIndent("", w.indentString)
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
