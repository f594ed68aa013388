// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"context"
	"time"

	"github.com/corey/cefrtag/internal/domain/vocab"
)

// VocabularySource yields the raw level -> entries mapping the index is
// compiled from. A source that cannot be read returns an error wrapping
// vocab.ErrSourceUnavailable; the caller decides whether to degrade.
type VocabularySource interface {
	Load(ctx context.Context) (vocab.Source, error)

	// Describe names the source for logs and health output ("file:vocab.json").
	Describe() string
}

// SourceStorage persists named vocabulary sources to durable storage.
// The backing store (bbolt) gives each name its own namespace. Concurrent reads
// are safe; writes are serialized by the adapter.
//
// Crash safety: SaveSource must be transactional. A crash mid-write must not
// corrupt a previously committed source.
type SourceStorage interface {
	// SaveSource stores src under name, replacing any prior version.
	SaveSource(name string, src vocab.Source, origin string) error

	// LoadSource retrieves a stored source.
	// Returns nil, nil, nil if nothing is stored under name.
	LoadSource(name string) (vocab.Source, *SourceMeta, error)

	// DeleteSource removes a stored source. Idempotent.
	DeleteSource(name string) error

	// ListSources returns the stored source names, sorted.
	ListSources() ([]string, error)
}

// SourceMeta describes a stored vocabulary source.
type SourceMeta struct {
	Origin     string    `json:"origin"` // where the source was imported from
	ImportedAt time.Time `json:"imported_at"`
	Entries    int       `json:"entries"`
}
