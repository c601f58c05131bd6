// Package aggregate merges the results of several catalog queries into deduplicated,
// ranked track lists.
//
// Artist deep searches run their templates one at a time through a cooldown scheduler and stop
// early once enough items are merged. Genre and query lists fan out concurrently and merge in
// declaration order. A failing query is logged and skipped; only when every query fails does a
// flow report the catalog as unavailable.
package aggregate

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Catalog is the subset of the catalog adapter the aggregator calls.
type Catalog interface {
	Search(ctx context.Context, q catalog.Query) (*catalog.SearchResults, error)
	GetChannel(ctx context.Context, id string) (*catalog.Channel, error)
	GetPlaylist(ctx context.Context, id string) (*catalog.Playlist, error)
}

// Aggregator runs the aggregation flows against a catalog.
type Aggregator struct {
	catalog   Catalog
	cfg       shared.AggregateConfig
	scheduler *tasks.Scheduler
	progress  chan<- tasks.ProgressUpdate
	logger    *log.Logger
	now       func() time.Time
}

// New creates an aggregator. scheduler paces deep-search templates.
func New(c Catalog, cfg shared.AggregateConfig, scheduler *tasks.Scheduler, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	if scheduler == nil {
		scheduler = tasks.NewScheduler(0, logger)
	}
	defaults := shared.DefaultConfig().Aggregate
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = defaults.ItemsPerPage
	}
	if cfg.EarlyStopPages <= 0 {
		cfg.EarlyStopPages = defaults.EarlyStopPages
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = defaults.PopularLimit
	}
	if cfg.LongListenLimit <= 0 {
		cfg.LongListenLimit = defaults.LongListenLimit
	}
	if len(cfg.PopularGenres) == 0 {
		cfg.PopularGenres = defaults.PopularGenres
	}
	if len(cfg.RecommendGenres) == 0 {
		cfg.RecommendGenres = defaults.RecommendGenres
	}
	if len(cfg.LongListenQueries) == 0 {
		cfg.LongListenQueries = defaults.LongListenQueries
	}

	return &Aggregator{
		catalog:   c,
		cfg:       cfg,
		scheduler: scheduler,
		logger:    shared.WithLogger(logger, "component", "aggregate"),
		now:       time.Now,
	}
}

// WithProgress returns a copy of a reporting every plan step to progress.
func (a *Aggregator) WithProgress(progress chan<- tasks.ProgressUpdate) *Aggregator {
	c := *a
	c.progress = progress
	c.scheduler = a.scheduler.WithProgress(progress)
	return &c
}

// ItemsPerPage is the page size of deep searches.
func (a *Aggregator) ItemsPerPage() int { return a.cfg.ItemsPerPage }

// mergeSet accumulates tracks keyed by id. The first track seen for an id wins.
type mergeSet struct {
	seen   map[string]struct{}
	tracks []models.Track
}

func newMergeSet() *mergeSet {
	return &mergeSet{seen: make(map[string]struct{})}
}

// add appends the tracks whose ids are new and reports how many were added.
func (m *mergeSet) add(tracks ...models.Track) int {
	n := 0
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, ok := m.seen[t.ID]; ok {
			continue
		}
		m.seen[t.ID] = struct{}{}
		m.tracks = append(m.tracks, t)
		n++
	}
	return n
}

func (m *mergeSet) len() int { return len(m.tracks) }

// Merge concatenates lists keeping the first occurrence of every id.
func Merge(lists ...[]models.Track) []models.Track {
	m := newMergeSet()
	for _, l := range lists {
		m.add(l...)
	}
	if m.tracks == nil {
		return []models.Track{}
	}
	return m.tracks
}

// allFailed reports whether every settled call failed. An empty fan-out has not failed.
func allFailed[T any](settled []tasks.Settled[T]) ([]error, bool) {
	var errs []error
	for _, s := range settled {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errs, len(settled) > 0 && len(errs) == len(settled)
}
