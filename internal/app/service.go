package app

import (
	"context"
	"fmt"
	"time"

	"github.com/corey/cefrtag/internal/domain/tagger"
	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

// DefaultLevelLimit is how many entries a level listing returns when the
// caller does not ask for a specific number.
const DefaultLevelLimit = 100

// Service answers vocabulary queries against the registry's current index.
// Every call reads one snapshot, so a concurrent reload never mixes two
// indexes within a single answer.
type Service struct {
	reg     *Registry
	started time.Time
}

// NewService creates a service over reg.
func NewService(reg *Registry) *Service {
	return &Service{reg: reg, started: time.Now()}
}

// Registry exposes the underlying registry (for reload wiring).
func (s *Service) Registry() *Registry {
	return s.reg
}

// Tag returns every (token, entry, level) occurrence in text. The error is
// only ever a failure to obtain an index (e.g. ctx cancelled during first load).
func (s *Service) Tag(ctx context.Context, text string) ([]tagger.Occurrence, error) {
	snap, err := s.reg.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tagger.Tag(text), nil
}

// Report tags text and groups the result by the index's levels.
func (s *Service) Report(ctx context.Context, text string) (tagger.Report, error) {
	snap, err := s.reg.Snapshot(ctx)
	if err != nil {
		return tagger.Report{}, err
	}
	occs := snap.Tagger.Tag(text)
	return tagger.BuildReport(text, snap.Index.Levels(), occs), nil
}

// Stats counts entries per level of the loaded source.
func (s *Service) Stats(ctx context.Context) (ports.StatsResult, error) {
	snap, err := s.reg.Snapshot(ctx)
	if err != nil {
		return ports.StatsResult{}, err
	}
	st := snap.Index.Stats()

	res := ports.StatsResult{
		VocabularyStats: make(map[string]int, len(st.Levels)+1),
		Levels:          make([]string, 0, len(st.Levels)),
		TotalWords:      st.Total,
	}
	for _, l := range st.Levels {
		res.VocabularyStats[string(l)] = st.ByLevel[l]
		res.Levels = append(res.Levels, string(l))
	}
	res.VocabularyStats["total"] = st.Total
	return res, nil
}

// Check looks a single word or phrase up in the raw source.
func (s *Service) Check(ctx context.Context, word string) (vocab.CheckResult, error) {
	snap, err := s.reg.Snapshot(ctx)
	if err != nil {
		return vocab.CheckResult{}, err
	}
	return vocab.CheckWord(snap.Index.Source(), word), nil
}

// Level lists the first limit entries of a level. limit <= 0 means
// DefaultLevelLimit. Names are case-insensitive.
func (s *Service) Level(ctx context.Context, name string, limit int) (ports.LevelResult, error) {
	snap, err := s.reg.Snapshot(ctx)
	if err != nil {
		return ports.LevelResult{}, err
	}
	if limit <= 0 {
		limit = DefaultLevelLimit
	}

	level := vocab.ParseLevel(name)
	entries, err := snap.Index.LevelEntries(level)
	if err != nil {
		return ports.LevelResult{}, fmt.Errorf("level %s (available: %v): %w", level, snap.Index.Levels(), err)
	}

	words := entries
	if len(words) > limit {
		words = words[:limit]
	}
	return ports.LevelResult{
		Level:     string(level),
		WordCount: len(entries),
		Words:     append([]string{}, words...),
		Message:   fmt.Sprintf("Showing first %d words of %d total words for level %s", limit, len(entries), level),
	}, nil
}

// Health reports the registry state without triggering a load.
func (s *Service) Health() ports.HealthResult {
	snap := s.reg.Current()
	if snap == nil {
		return ports.HealthResult{
			Status: ports.HealthLoading,
			Uptime: time.Since(s.started).Truncate(time.Second).String(),
		}
	}

	h := ports.HealthResult{
		Status:     ports.HealthOK,
		Ready:      true,
		Source:     snap.Source,
		Entries:    snap.Index.EntryCount(),
		Keys:       snap.Index.KeyCount(),
		Malformed:  snap.Index.MalformedCount(),
		Generation: snap.Generation,
		LoadedAt:   snap.LoadedAt,
		Uptime:     time.Since(s.started).Truncate(time.Second).String(),
	}
	if snap.Degraded != nil {
		h.Status = ports.HealthDegraded
		h.Error = snap.Degraded.Error()
	}
	return h
}

// Reload recompiles the index from its source and reports the new state.
func (s *Service) Reload(ctx context.Context) (ports.HealthResult, error) {
	if _, err := s.reg.Reload(ctx); err != nil {
		return s.Health(), fmt.Errorf("reload %s: %w", s.reg.source.Describe(), err)
	}
	return s.Health(), nil
}
