package services

import (
	"database/sql"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/aggregate"
	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/repositories"
	"github.com/desertthunder/soundscout/internal/resolver"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/stream"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Deps is the wired object graph of one process.
type Deps struct {
	Config    *shared.Config
	DB        *sql.DB // nil when database.path is empty
	Adapter   *catalog.Adapter
	Responses *repositories.ResponseCache
	AudioURLs *repositories.AudioURLRepository
	Music     *MusicService

	audio *stream.AudioResolver
}

// Build wires the catalog adapter, persistent caches and flows described by cfg.
// factory may be nil to use the production YouTube client.
func Build(cfg *shared.Config, factory catalog.Factory, logger *log.Logger) (*Deps, error) {
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if factory == nil {
		factory = catalog.NewFactory(cfg.Catalog, logger)
	}

	db, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	d := &Deps{Config: cfg, DB: db}

	opts := catalog.OptionsFromConfig(cfg.Catalog)
	opts.Logger = logger
	if db != nil {
		d.Responses = repositories.NewResponseCache(db)
		d.AudioURLs = repositories.NewAudioURLRepository(db)
		opts.Store = d.Responses
	}
	d.Adapter = catalog.NewAdapter(factory, opts)

	scheduler := tasks.NewScheduler(cfg.Catalog.Cooldown, logger)

	var audio *stream.AudioResolver
	if cfg.YtDlp.Enabled {
		fetcher := &stream.YtDlp{Binary: cfg.YtDlp.Binary}
		if d.AudioURLs != nil {
			audio = stream.NewAudioResolver(fetcher, d.AudioURLs, cfg.YtDlp, logger)
		} else {
			audio = stream.NewAudioResolver(fetcher, nil, cfg.YtDlp, logger)
		}
	}

	d.audio = audio
	d.Music = NewMusicService(MusicOpts{
		Catalog:    d.Adapter,
		Resolver:   resolver.NewResolver(d.Adapter, cfg.Resolver, scheduler, logger),
		Aggregator: aggregate.New(d.Adapter, cfg.Aggregate, scheduler, logger),
		Streams:    stream.NewResolver(d.Adapter, logger),
		Audio:      audio,
		Logger:     logger,
	})
	return d, nil
}

// Close releases the database, if any.
func (d *Deps) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// ClearCaches empties every response cache tier and reports how many persisted rows were removed.
func (d *Deps) ClearCaches() (int64, error) {
	d.Adapter.Purge()
	if d.audio != nil {
		d.audio.Purge()
	}
	if d.DB == nil {
		return 0, nil
	}

	responses, err := d.Responses.Clear()
	if err != nil {
		return 0, err
	}
	urls, err := d.AudioURLs.Clear()
	return responses + urls, err
}

// PruneCaches drops expired persisted rows.
func (d *Deps) PruneCaches() (int64, error) {
	if d.DB == nil {
		return 0, nil
	}
	responses, rerr := d.Responses.Prune()
	urls, uerr := d.AudioURLs.Prune()
	return responses + urls, errors.Join(rerr, uerr)
}
