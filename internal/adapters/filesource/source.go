// Package filesource implements ports.VocabularySource over JSON or YAML files.
// A vocabulary file is a mapping from level name to a list of entries. Key
// order is significant (it is the level order) so both formats are decoded
// token by token instead of into a Go map.
package filesource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/cefrtag/internal/domain/vocab"
)

// Format is a vocabulary file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension; anything but .yaml/.yml is JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Source reads a vocabulary file, trying a fallback path when the primary is
// missing. With fsys set, paths are resolved inside fsys instead of the OS.
type Source struct {
	fsys     fs.FS
	path     string
	fallback string
}

// New returns a source reading path from disk, then fallback if path does not exist.
// fallback may be empty.
func New(path, fallback string) *Source {
	return &Source{path: path, fallback: fallback}
}

// NewFS returns a source reading name from fsys (e.g. an embed.FS).
func NewFS(fsys fs.FS, name string) *Source {
	return &Source{fsys: fsys, path: name}
}

// Path returns the primary path.
func (s *Source) Path() string {
	return s.path
}

// Describe names the source for logs.
func (s *Source) Describe() string {
	if s.fsys != nil {
		return "builtin:" + s.path
	}
	return "file:" + s.path
}

// Load reads and parses the first existing candidate path. Every failure
// wraps vocab.ErrSourceUnavailable so callers can degrade to an empty source.
func (s *Source) Load(ctx context.Context) (vocab.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lastErr error
	for _, p := range s.candidates() {
		data, err := s.read(p)
		if errors.Is(err, fs.ErrNotExist) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", vocab.ErrSourceUnavailable, p, err)
		}
		src, err := Parse(data, FormatFor(p))
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", vocab.ErrSourceUnavailable, p, err)
		}
		return src, nil
	}
	return nil, fmt.Errorf("%w: %v", vocab.ErrSourceUnavailable, lastErr)
}

func (s *Source) candidates() []string {
	out := []string{s.path}
	if s.fallback != "" && s.fallback != s.path {
		out = append(out, s.fallback)
	}
	return out
}

func (s *Source) read(p string) ([]byte, error) {
	if s.fsys != nil {
		return fs.ReadFile(s.fsys, p)
	}
	return os.ReadFile(filepath.Clean(p))
}

// Parse decodes a vocabulary document. Level keys repeated in one document
// are merged in order of appearance.
func Parse(data []byte, format Format) (vocab.Source, error) {
	var (
		src vocab.Source
		err error
	)
	switch format {
	case FormatYAML:
		src, err = parseYAML(data)
	default:
		src, err = parseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return merge(src), nil
}

func parseJSON(data []byte) (vocab.Source, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("json: expected object of levels")
	}

	var src vocab.Source
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		level, _ := tok.(string)

		var entries []string
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("json: level %q: %w", level, err)
		}
		src = append(src, vocab.LevelEntries{Level: vocab.Level(level), Entries: entries})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("json: %w", err)
	}
	return src, nil
}

func parseYAML(data []byte) (vocab.Source, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return vocab.Source{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml: expected mapping of levels")
	}

	var src vocab.Source
	for i := 0; i+1 < len(root.Content); i += 2 {
		level := root.Content[i].Value
		var entries []string
		if err := root.Content[i+1].Decode(&entries); err != nil {
			return nil, fmt.Errorf("yaml: level %q: %w", level, err)
		}
		src = append(src, vocab.LevelEntries{Level: vocab.Level(level), Entries: entries})
	}
	return src, nil
}

// merge folds repeated level keys into their first appearance.
func merge(src vocab.Source) vocab.Source {
	out := make(vocab.Source, 0, len(src))
	pos := make(map[vocab.Level]int, len(src))
	for _, le := range src {
		if le.Entries == nil {
			le.Entries = []string{}
		}
		if i, ok := pos[le.Level]; ok {
			out[i].Entries = append(out[i].Entries, le.Entries...)
			continue
		}
		pos[le.Level] = len(out)
		out = append(out, le)
	}
	return out
}
