package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/rank"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Template is one deep-search query. Name tags every track it contributes.
type Template struct {
	Name   string
	Format string // fmt template receiving the seed term
}

// DeepSearchTemplates in priority order. The bare term comes last as a catch-all.
var DeepSearchTemplates = []Template{
	{Name: "official_video", Format: "%s official video"},
	{Name: "official_music", Format: "%s official music"},
	{Name: "official", Format: "%s official"},
	{Name: "album", Format: "%s album"},
	{Name: "playlist", Format: "%s playlist"},
	{Name: "mixes", Format: "%s mixes"},
	{Name: "general", Format: "%s"},
}

// DeepSearch collects an artist's videos across [DeepSearchTemplates] and returns the requested page.
//
// Templates run sequentially with the scheduler's cooldown between them; once the merged set
// holds EarlyStopPages pages worth of items the remaining templates are skipped. Official-tagged
// tracks are ranked first.
func (a *Aggregator) DeepSearch(ctx context.Context, term string, page int) (models.ResultSet, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return models.ResultSet{}, catalog.InvalidInput("deep_search", "Artist name is required")
	}

	if err := catalog.Ensure(ctx, a.catalog); err != nil {
		return models.ResultSet{}, err
	}

	merged := newMergeSet()
	limit := a.cfg.EarlyStopPages * a.cfg.ItemsPerPage

	plan := make([]tasks.Task, 0, len(DeepSearchTemplates))
	for _, tpl := range DeepSearchTemplates {
		plan = append(plan, tasks.Task{
			Name: tpl.Name,
			Run: func(ctx context.Context) error {
				results, err := a.catalog.Search(ctx, catalog.Query{Text: fmt.Sprintf(tpl.Format, term), Type: catalog.TypeVideo})
				if catalog.IsInit(err) {
					return tasks.Abort(err)
				}
				if err != nil {
					return err
				}
				added := merged.add(normalize.Tracks(results.Videos(), tpl.Name)...)
				a.logger.Debug("deep search template", "template", tpl.Name, "added", added, "total", merged.len())
				if merged.len() >= limit {
					return tasks.Stop
				}
				return nil
			},
		})
	}

	report, err := a.scheduler.Run(ctx, tasks.DeepSearch, plan)
	if err != nil {
		return models.ResultSet{}, err
	}
	if report.AllFailed() {
		return models.ResultSet{}, catalog.Unavailable("deep_search", errors.Join(report.Errors()...))
	}

	tracks, pagination := rank.Paginate(rank.OfficialFirst(merged.tracks), page, a.cfg.ItemsPerPage)
	return models.ResultSet{Tracks: tracks, Pagination: pagination}, nil
}
