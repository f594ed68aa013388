// Package bbolt implements ports.SourceStorage using bbolt (embedded B+ tree).
// Each named vocabulary source gets its own top-level bucket holding the
// JSON-serialized levels and a small metadata record. Writes are transactional:
// a crash mid-write cannot corrupt a previously committed source.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	keyLevels = []byte("levels")
	keyMeta   = []byte("meta")
)

// Store implements ports.SourceStorage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// levelJSON keeps level order, which a JSON object would not.
type levelJSON struct {
	Level   vocab.Level `json:"level"`
	Entries []string    `json:"entries"`
}

// SaveSource stores src under name, replacing any prior version.
func (s *Store) SaveSource(name string, src vocab.Source, origin string) error {
	if name == "" {
		return fmt.Errorf("empty source name")
	}
	if src == nil {
		return fmt.Errorf("nil source")
	}

	levels := make([]levelJSON, 0, len(src))
	for _, le := range src {
		entries := le.Entries
		if entries == nil {
			entries = []string{}
		}
		levels = append(levels, levelJSON{Level: le.Level, Entries: entries})
	}
	levelsData, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("marshal levels: %w", err)
	}
	metaData, err := json.Marshal(ports.SourceMeta{
		Origin:     origin,
		ImportedAt: time.Now().UTC(),
		Entries:    src.Len(),
	})
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if err := b.Put(keyLevels, levelsData); err != nil {
			return err
		}
		return b.Put(keyMeta, metaData)
	})
}

// LoadSource retrieves a stored source.
// Returns nil, nil, nil if nothing is stored under name.
func (s *Store) LoadSource(name string) (vocab.Source, *ports.SourceMeta, error) {
	var levelsData, metaData []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyLevels); v != nil {
			levelsData = make([]byte, len(v))
			copy(levelsData, v)
		}
		if v := b.Get(keyMeta); v != nil {
			metaData = make([]byte, len(v))
			copy(metaData, v)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if levelsData == nil {
		return nil, nil, nil
	}

	var levels []levelJSON
	if err := json.Unmarshal(levelsData, &levels); err != nil {
		return nil, nil, fmt.Errorf("unmarshal levels: %w", err)
	}
	src := make(vocab.Source, 0, len(levels))
	for _, l := range levels {
		src = append(src, vocab.LevelEntries{Level: l.Level, Entries: l.Entries})
	}

	var meta ports.SourceMeta
	if metaData != nil {
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return nil, nil, fmt.Errorf("unmarshal meta: %w", err)
		}
	}
	return src, &meta, nil
}

// DeleteSource removes a stored source.
// Idempotent: deleting a nonexistent source is not an error.
func (s *Store) DeleteSource(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// ListSources returns the stored source names, sorted.
func (s *Store) ListSources() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Source adapts one stored name to ports.VocabularySource.
type Source struct {
	store *Store
	name  string
}

// NewSource returns a VocabularySource reading name from store.
func NewSource(store *Store, name string) *Source {
	return &Source{store: store, name: name}
}

// Load reads the stored source. A missing name wraps vocab.ErrSourceUnavailable.
func (s *Source) Load(ctx context.Context) (vocab.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, _, err := s.store.LoadSource(s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: bolt %q: %v", vocab.ErrSourceUnavailable, s.name, err)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: bolt %q: not imported", vocab.ErrSourceUnavailable, s.name)
	}
	return src, nil
}

// Describe names the source for logs.
func (s *Source) Describe() string {
	return "bolt:" + s.name
}
