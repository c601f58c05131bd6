package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/desertthunder/soundscout/internal/cache"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
)

// Factory constructs a ready-to-use [Client].
type Factory func(ctx context.Context) (Client, error)

// Store is a persistent second tier for cached catalog responses.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key, op string, payload []byte, ttl time.Duration) error
}

// Options configure an [Adapter]. Zero durations fall back to the defaults in [shared.Config].
type Options struct {
	InitTimeout   time.Duration
	CallTimeout   time.Duration
	StreamTimeout time.Duration
	CacheTTL      time.Duration
	Store         Store
	Logger        *log.Logger
}

// OptionsFromConfig maps the [catalog] config section onto [Options].
func OptionsFromConfig(cfg shared.CatalogConfig) Options {
	return Options{
		InitTimeout:   cfg.InitTimeout,
		CallTimeout:   cfg.CallTimeout,
		StreamTimeout: cfg.StreamTimeout,
		CacheTTL:      cfg.CacheTTL,
	}
}

// Adapter is the process-wide catalog handle. It implements [Client].
type Adapter struct {
	factory Factory
	opts    Options
	logger  *log.Logger

	mu     sync.RWMutex
	client Client
	inits  singleflight.Group

	searches  *cache.Cache[*SearchResults]
	channels  *cache.Cache[*Channel]
	playlists *cache.Cache[*Playlist]
}

// NewAdapter returns an adapter that builds its client with factory on first use.
func NewAdapter(factory Factory, opts Options) *Adapter {
	defaults := shared.DefaultConfig().Catalog
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = defaults.InitTimeout
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaults.CallTimeout
	}
	if opts.StreamTimeout <= 0 {
		opts.StreamTimeout = defaults.StreamTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Adapter{
		factory:   factory,
		opts:      opts,
		logger:    shared.WithLogger(logger, "component", "catalog"),
		searches:  cache.New[*SearchResults](),
		channels:  cache.New[*Channel](),
		playlists: cache.New[*Playlist](),
	}
}

// Handle returns the shared client, constructing it if needed.
//
// Concurrent callers observe the same in-flight construction. A failed or timed out
// construction leaves nothing behind, so the next call starts over.
func (a *Adapter) Handle(ctx context.Context) (Client, error) {
	if c := a.current(); c != nil {
		return c, nil
	}

	ch := a.inits.DoChan("init", func() (any, error) {
		if c := a.current(); c != nil {
			return c, nil
		}

		started := time.Now()
		// Detached from the first caller so one cancelled request cannot fail everyone waiting on it.
		c, err := race(context.WithoutCancel(ctx), a.opts.InitTimeout, func(ctx context.Context) (Client, error) {
			return a.factory(ctx)
		})
		if err != nil {
			a.logger.Error("catalog initialization failed", "error", err, "elapsed", time.Since(started))
			return nil, Unavailable("init", err)
		}
		if c == nil {
			return nil, Unavailable("init", fmt.Errorf("factory returned no client"))
		}

		a.mu.Lock()
		a.client = c
		a.mu.Unlock()
		a.logger.Debug("catalog initialized", "elapsed", time.Since(started))
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Client), nil
	case <-ctx.Done():
		return nil, Unavailable("init", ctx.Err())
	}
}

// Ensure constructs the shared handle of c before a multi-call plan runs, so an
// initialization failure surfaces once instead of failing every step. Catalogs without
// a lazily built handle are always ready.
func Ensure(ctx context.Context, c any) error {
	h, ok := c.(interface {
		Handle(ctx context.Context) (Client, error)
	})
	if !ok {
		return nil
	}
	_, err := h.Handle(ctx)
	return err
}

// IsInit reports whether err came from constructing the handle rather than from a call.
func IsInit(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Op == "init"
}

// Reset drops the current handle so the next call reconstructs it.
func (a *Adapter) Reset() {
	a.mu.Lock()
	a.client = nil
	a.mu.Unlock()
}

// Purge clears the in-memory response caches.
func (a *Adapter) Purge() {
	a.searches.Purge()
	a.channels.Purge()
	a.playlists.Purge()
}

// Ready reports whether a handle has been constructed.
func (a *Adapter) Ready() bool { return a.current() != nil }

func (a *Adapter) current() Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

func (a *Adapter) Search(ctx context.Context, q Query) (*SearchResults, error) {
	key := searchKey(q)
	return cached(ctx, a, a.searches, "search", key, func(ctx context.Context, c Client) (*SearchResults, error) {
		res, err := c.Search(ctx, q)
		if err == nil && res == nil {
			res = &SearchResults{}
		}
		return res, err
	})
}

func (a *Adapter) GetChannel(ctx context.Context, id string) (*Channel, error) {
	return cached(ctx, a, a.channels, "channel", "channel:"+id, func(ctx context.Context, c Client) (*Channel, error) {
		ch, err := c.GetChannel(ctx, id)
		if err == nil && ch == nil {
			return nil, NotFound("channel", "Channel not found")
		}
		return ch, err
	})
}

func (a *Adapter) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	return cached(ctx, a, a.playlists, "playlist", "playlist:"+id, func(ctx context.Context, c Client) (*Playlist, error) {
		pl, err := c.GetPlaylist(ctx, id)
		if err == nil && pl == nil {
			return nil, NotFound("playlist", "Playlist not found")
		}
		return pl, err
	})
}

// GetInfo is not cached: stream urls in the response are signed and short-lived.
func (a *Adapter) GetInfo(ctx context.Context, id string) (*VideoInfo, error) {
	return call(ctx, a, "info", a.opts.StreamTimeout, func(ctx context.Context, c Client) (*VideoInfo, error) {
		return c.GetInfo(ctx, id)
	})
}

func (a *Adapter) GetBasicInfo(ctx context.Context, id string) (*VideoInfo, error) {
	return call(ctx, a, "basic_info", a.opts.StreamTimeout, func(ctx context.Context, c Client) (*VideoInfo, error) {
		return c.GetBasicInfo(ctx, id)
	})
}

func (a *Adapter) GetStreamingData(ctx context.Context, id string, opts StreamOptions) (*models.StreamFormat, error) {
	return call(ctx, a, "streaming_data", a.opts.StreamTimeout, func(ctx context.Context, c Client) (*models.StreamFormat, error) {
		return c.GetStreamingData(ctx, id, opts)
	})
}

// call obtains the handle and races fn against timeout.
func call[T any](ctx context.Context, a *Adapter, op string, timeout time.Duration, fn func(context.Context, Client) (T, error)) (T, error) {
	var zero T
	c, err := a.Handle(ctx)
	if err != nil {
		return zero, err
	}

	v, err := race(ctx, timeout, func(ctx context.Context) (T, error) { return fn(ctx, c) })
	if errors.Is(err, errRaceTimeout) || errors.Is(err, context.DeadlineExceeded) {
		a.logger.Warn("catalog call timed out", "op", op, "timeout", timeout)
		return zero, Timeout(op, timeout)
	}
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) || errors.Is(err, context.Canceled) {
			return zero, err
		}
		return zero, &Error{Kind: shared.ErrUnavailable, Op: op, Err: err}
	}
	return v, nil
}

// cached serves from memory, then the persistent store, then the catalog.
func cached[T any](ctx context.Context, a *Adapter, mem *cache.Cache[T], op, key string, fn func(context.Context, Client) (T, error)) (T, error) {
	if v, ok := mem.Get(key); ok {
		return v, nil
	}

	if v, ok := loadStored[T](ctx, a, key); ok {
		mem.Set(key, v, a.opts.CacheTTL)
		return v, nil
	}

	v, err := call(ctx, a, op, a.opts.CallTimeout, fn)
	if err != nil {
		return v, err
	}

	mem.Set(key, v, a.opts.CacheTTL)
	saveStored(ctx, a, op, key, v)
	return v, nil
}

func loadStored[T any](ctx context.Context, a *Adapter, key string) (T, bool) {
	var v T
	if a.opts.Store == nil {
		return v, false
	}

	data, ok, err := a.opts.Store.Load(ctx, key)
	if err != nil {
		a.logger.Warn("response cache read failed", "key", key, "error", err)
		return v, false
	}
	if !ok {
		return v, false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		a.logger.Warn("response cache entry is corrupt", "key", key, "error", err)
		return v, false
	}
	return v, true
}

func saveStored[T any](ctx context.Context, a *Adapter, op, key string, v T) {
	if a.opts.Store == nil || a.opts.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("response cache encode failed", "key", key, "error", err)
		return
	}
	if err := a.opts.Store.Save(ctx, key, op, data, a.opts.CacheTTL); err != nil {
		a.logger.Warn("response cache write failed", "key", key, "error", err)
	}
}

func searchKey(q Query) string {
	return strings.Join([]string{
		"search",
		strings.ToLower(strings.TrimSpace(q.Text)),
		string(q.Type),
		q.Locale,
		q.Region,
		q.SortBy,
		q.Duration,
		strings.Join(q.Features, ","),
	}, "|")
}

var errRaceTimeout = errors.New("race timeout")

// race runs fn and returns its result, or errRaceTimeout once timeout elapses.
//
// fn keeps running in the background after a timeout; its eventual result is discarded.
func race[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	done := make(chan outcome, 1)
	go func() {
		defer cancel()
		v, err := fn(cctx)
		done <- outcome{v, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case o := <-done:
		return o.v, o.err
	case <-timer.C:
		return zero, errRaceTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

var _ Client = (*Adapter)(nil)
