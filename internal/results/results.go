package results

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// File names of one audit run.
const (
	Pa11yFile      = "pa11y_result.json"
	AxeFile        = "axe_result.json"
	LighthouseFile = "lighthouse_results.json"
	CombinedFile   = "bewertung.json"
	ScoreFile      = "score.json"
	URLListFile    = "found_urls.txt"
	SummaryFile    = "visualization_summary.txt"
)

// filePerm is the permission of written result files.
const filePerm = 0o600

// ErrInvalidFormat is returned when a result file is neither a JSON object
// nor a JSON array.
var ErrInvalidFormat = errors.New("invalid result file format")

// Layout locates the result files of a run inside one directory.
type Layout struct {
	Dir string
}

// NewLayout creates a Layout rooted at dir. An empty dir means the current
// directory.
func NewLayout(dir string) Layout {
	if dir == "" {
		dir = "."
	}
	return Layout{Dir: dir}
}

// ToolPath returns the result file of tool t.
func (l Layout) ToolPath(t model.Tool) string {
	switch t {
	case model.ToolPa11y:
		return filepath.Join(l.Dir, Pa11yFile)
	case model.ToolAxe:
		return filepath.Join(l.Dir, AxeFile)
	case model.ToolLighthouse:
		return filepath.Join(l.Dir, LighthouseFile)
	default:
		return filepath.Join(l.Dir, string(t)+"_result.json")
	}
}

// ToolPaths returns the result file of every tool.
func (l Layout) ToolPaths() map[model.Tool]string {
	paths := make(map[model.Tool]string, len(model.Tools()))
	for _, t := range model.Tools() {
		paths[t] = l.ToolPath(t)
	}
	return paths
}

// Combined returns the path of the combined per-page report.
func (l Layout) Combined() string {
	return filepath.Join(l.Dir, CombinedFile)
}

// Score returns the path of the score file.
func (l Layout) Score() string {
	return filepath.Join(l.Dir, ScoreFile)
}

// URLList returns the path of the discovered URL list.
func (l Layout) URLList() string {
	return filepath.Join(l.Dir, URLListFile)
}

// Summary returns the path of the text summary.
func (l Layout) Summary() string {
	return filepath.Join(l.Dir, SummaryFile)
}

// artifacts returns every file a run writes.
func (l Layout) artifacts() []string {
	paths := make([]string, 0, 7)
	for _, t := range model.Tools() {
		paths = append(paths, l.ToolPath(t))
	}
	return append(paths, l.Combined(), l.Score(), l.URLList(), l.Summary())
}

// ReadEntries reads a result file as a list of entries. A file holding a
// single object reads as a one-element list.
func ReadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidFormat, path)
	}

	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
		}
		return entries, nil
	case '{':
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidFormat, path)
		}
		return []json.RawMessage{json.RawMessage(data)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}
}

// Append adds entries to the list in path, creating the file when needed.
// An unreadable existing file is replaced. Append is not safe for
// concurrent use on the same path.
func Append(path string, entries ...json.RawMessage) error {
	existing, err := ReadEntries(path)
	if err != nil {
		existing = nil
	}

	all := make([]json.RawMessage, 0, len(existing)+len(entries))
	all = append(all, existing...)
	all = append(all, entries...)
	return WriteJSON(path, all)
}

// WriteJSON writes v to path as indented JSON. HTML and non-ASCII text are
// written as is.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(path, buf.Bytes())
}

// ReadReports reads a combined report file.
func ReadReports(path string) ([]model.PageReport, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var reports []model.PageReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	return reports, nil
}

// WriteURLList writes urls to path, one per line.
func WriteURLList(path string, urls []string) error {
	var buf bytes.Buffer
	for _, u := range urls {
		buf.WriteString(u)
		buf.WriteByte('\n')
	}
	return writeFile(path, buf.Bytes())
}

// ReadURLList reads a URL list written by WriteURLList. Blank lines are
// ignored.
func ReadURLList(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	urls := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return urls, nil
}

// CleanOld removes the files of a previous run. Missing files are ignored.
func CleanOld(l Layout) ([]string, error) {
	return remove(l.artifacts())
}

// CleanToolResults removes the per-tool result files once they have been
// combined.
func CleanToolResults(l Layout) ([]string, error) {
	paths := make([]string, 0, len(model.Tools()))
	for _, t := range model.Tools() {
		paths = append(paths, l.ToolPath(t))
	}
	return remove(paths)
}

// remove deletes paths and returns the ones that existed.
func remove(paths []string) ([]string, error) {
	removed := make([]string, 0, len(paths))
	var errs []error
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
		}
	}
	return removed, errors.Join(errs...)
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
