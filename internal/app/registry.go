package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/corey/cefrtag/internal/adapters/ahocorasick"
	"github.com/corey/cefrtag/internal/config"
	"github.com/corey/cefrtag/internal/domain/tagger"
	"github.com/corey/cefrtag/internal/domain/vocab"
	"github.com/corey/cefrtag/internal/ports"
)

// Snapshot is one published, fully compiled vocabulary. It is never mutated.
type Snapshot struct {
	Index      *vocab.Index
	Tagger     *tagger.Tagger
	Source     string
	Degraded   error // non-nil when the source was unavailable and the index is empty
	Generation uint64
	LoadedAt   time.Time
	Took       time.Duration
}

// Registry owns the process-wide vocabulary index.
//
// The first caller of Snapshot compiles the index; concurrent first callers
// share that one compilation. Reload compiles a replacement and swaps it in
// atomically, so readers see either the old or the new index, never a
// partial one. Readers never lock.
type Registry struct {
	source ports.VocabularySource
	opts   config.TaggerConfig
	logger *slog.Logger

	init     singleflight.Group
	reloadMu sync.Mutex
	gen      atomic.Uint64
	current  atomic.Pointer[Snapshot]
}

// NewRegistry creates a registry. Nothing is loaded until Snapshot or Reload.
func NewRegistry(source ports.VocabularySource, opts config.TaggerConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{source: source, opts: opts, logger: logger}
}

// Ready reports whether an index has been published.
func (r *Registry) Ready() bool {
	return r.current.Load() != nil
}

// Current returns the published snapshot without triggering a load, or nil.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Snapshot returns the published snapshot, compiling it on first use.
// The shared compilation does not inherit any caller's cancellation; a caller
// whose ctx ends stops waiting while the others still get the result.
func (r *Registry) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := r.current.Load(); s != nil {
		return s, nil
	}
	buildCtx := context.WithoutCancel(ctx)
	ch := r.init.DoChan("init", func() (any, error) {
		if s := r.current.Load(); s != nil {
			return s, nil
		}
		return r.build(buildCtx, true)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Reload recompiles from the source and publishes the result. If the source
// is unavailable while a healthy index is already published, the old index
// stays in place and the error is returned.
func (r *Registry) Reload(ctx context.Context) (*Snapshot, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	first := r.current.Load() == nil
	if cur := r.current.Load(); cur != nil && cur.Degraded != nil {
		first = true // nothing healthy to protect
	}
	return r.build(ctx, first)
}

// build loads, compiles and publishes. degrade controls whether an
// unavailable source publishes an empty index or keeps the current one.
func (r *Registry) build(ctx context.Context, degrade bool) (*Snapshot, error) {
	gen := r.gen.Add(1)
	start := time.Now()

	src, err := r.source.Load(ctx)
	var degraded error
	if err != nil {
		if !errors.Is(err, vocab.ErrSourceUnavailable) {
			return nil, err
		}
		if !degrade {
			r.logger.ErrorContext(ctx, "vocab.reload_failed",
				slog.String("source", r.source.Describe()),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		r.logger.WarnContext(ctx, "vocab.source_unavailable",
			slog.String("source", r.source.Describe()),
			slog.String("error", err.Error()),
		)
		src = vocab.EmptySource()
		degraded = err
	}

	idx := vocab.Compile(src)
	snap := &Snapshot{
		Index:      idx,
		Tagger:     r.newTagger(idx),
		Source:     r.source.Describe(),
		Degraded:   degraded,
		Generation: gen,
		LoadedAt:   time.Now(),
		Took:       time.Since(start),
	}

	if !r.publish(snap) {
		// A newer build won the race; hand out what is published.
		return r.current.Load(), nil
	}

	r.logger.InfoContext(ctx, "vocab.compiled",
		slog.String("source", snap.Source),
		slog.Int("entries", idx.EntryCount()),
		slog.Int("keys", idx.KeyCount()),
		slog.Int("malformed", idx.MalformedCount()),
		slog.Uint64("generation", gen),
		slog.Duration("took", snap.Took),
	)
	return snap, nil
}

func (r *Registry) newTagger(idx *vocab.Index) *tagger.Tagger {
	var opts []tagger.Option
	if r.opts.TokenOffsets {
		opts = append(opts, tagger.WithTokenOffsets())
	}
	if r.opts.Phrases {
		opts = append(opts, tagger.WithPhrases(ahocorasick.NewPhraseScanner(idx.PhraseKeys())))
	}
	return tagger.New(idx, opts...)
}

// publish swaps in snap unless a newer generation is already published.
func (r *Registry) publish(snap *Snapshot) bool {
	for {
		cur := r.current.Load()
		if cur != nil && cur.Generation > snap.Generation {
			return false
		}
		if r.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}
