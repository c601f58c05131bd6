package resolver

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/tasks"
	tu "github.com/desertthunder/soundscout/internal/testing"
)

func newTestResolver(mock *tu.MockCatalog, cfg shared.ResolverConfig) *Resolver {
	logger := log.New(io.Discard)
	return NewResolver(mock, cfg, tasks.NewScheduler(0, logger), logger)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("known channel skips search", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Channels["UCBJycsmduvYEL83R_U4JriQ"] = &catalog.Channel{
			ID: "UCBJycsmduvYEL83R_U4JriQ",
			Metadata: catalog.Result{
				"title":  "Curated Artist",
				"avatar": map[string]any{"thumbnails": []any{map[string]any{"url": "https://yt3.ggpht.com/a.jpg"}}},
			},
		}

		r := newTestResolver(mock, shared.ResolverConfig{})
		got, err := r.Resolve(ctx, "  AJSBHBHBHB ")
		require.NoError(t, err)

		assert.Equal(t, "UCBJycsmduvYEL83R_U4JriQ", got.ChannelID)
		assert.Equal(t, "Curated Artist", got.ChannelName)
		assert.Equal(t, "https://yt3.ggpht.com/a.jpg", got.Thumbnail)
		assert.Equal(t, models.SourceKnownChannel, got.Source)
		assert.Zero(t, mock.Count("search"))
		assert.Equal(t, 1, mock.Count("channel"))
	})

	t.Run("configured known channels extend the table", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Channels["UCband"] = &catalog.Channel{ID: "UCband", Metadata: catalog.Result{"title": "Some Band"}}

		r := newTestResolver(mock, shared.ResolverConfig{KnownChannels: map[string]string{"Some Band ": " UCband"}})
		got, err := r.Resolve(ctx, "some band")
		require.NoError(t, err)
		assert.Equal(t, "UCband", got.ChannelID)
		assert.Zero(t, mock.Count("search"))

		_, ok := r.KnownChannel("ajsbhbhbhb")
		assert.True(t, ok, "defaults survive configuration")
	})

	t.Run("strategies run in priority order until a match", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Searches["Some Artist official artist channel"] = []catalog.Result{tu.ChannelResult("UCother", "Other Person")}
		mock.Searches["Some Artist vevo"] = []catalog.Result{tu.ChannelResult("UCvevo", "SomeArtistVEVO")}

		r := newTestResolver(mock, shared.ResolverConfig{})
		got, err := r.Resolve(ctx, "Some Artist")
		require.NoError(t, err)

		assert.Equal(t, "UCvevo", got.ChannelID)
		assert.Equal(t, "SomeArtistVEVO", got.ChannelName)
		assert.Equal(t, "https://yt3.ggpht.com/UCvevo.jpg", got.Thumbnail)
		assert.Equal(t, models.SourceVevo, got.Source)
		assert.Equal(t, []string{"Some Artist official artist channel", "Some Artist vevo"}, mock.Queries())

		for _, c := range mock.Calls() {
			assert.Equal(t, catalog.TypeChannel, c.Query.Type)
		}
	})

	t.Run("progress reports the strategy plan", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Searches["Band official artist channel"] = []catalog.Result{tu.ChannelResult("UCband", "Band")}

		progress := make(chan tasks.ProgressUpdate, 16)
		r := newTestResolver(mock, shared.ResolverConfig{}).WithProgress(progress)
		_, err := r.Resolve(ctx, "Band")
		require.NoError(t, err)
		close(progress)

		var updates []tasks.ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		require.NotEmpty(t, updates)
		assert.Equal(t, tasks.ResolveIdentity, updates[0].Phase)
		assert.Equal(t, 1, updates[0].Step)
	})

	t.Run("failing strategy is skipped", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.SearchErrs["Band official artist channel"] = errors.New("boom")
		mock.Searches["Band vevo"] = []catalog.Result{tu.ChannelResult("UCband", "Band")}

		r := newTestResolver(mock, shared.ResolverConfig{})
		got, err := r.Resolve(ctx, "Band")
		require.NoError(t, err)
		assert.Equal(t, "UCband", got.ChannelID)
		assert.Equal(t, models.SourceVevo, got.Source)
	})

	t.Run("video strategy matches on the author", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Searches["Band official music video"] = []catalog.Result{
			tu.Video("v1", "Cover of Band", "Someone Else"),
			tu.Video("v2", "Band - Song", "Band"),
		}

		r := newTestResolver(mock, shared.ResolverConfig{})
		got, err := r.Resolve(ctx, "Band")
		require.NoError(t, err)

		assert.Equal(t, "UCband", got.ChannelID)
		assert.Equal(t, "Band", got.ChannelName)
		assert.Equal(t, models.SourceOfficialVideo, got.Source)
		assert.Len(t, mock.Queries(), 4)
		assert.Equal(t, catalog.TypeVideo, mock.Calls()[3].Query.Type)
	})

	t.Run("no match is not found", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Searches["Nobody topic"] = []catalog.Result{tu.ChannelResult("UCx", "Somebody Else")}

		r := newTestResolver(mock, shared.ResolverConfig{})
		_, err := r.Resolve(ctx, "Nobody")
		require.Error(t, err)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, ErrNoMatch, catalog.Message(err, ""))
		assert.Len(t, mock.Queries(), 4)
	})

	t.Run("every strategy failing is unavailable", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.SearchFunc = func(context.Context, catalog.Query) (*catalog.SearchResults, error) {
			return nil, errors.New("connection reset")
		}

		r := newTestResolver(mock, shared.ResolverConfig{})
		_, err := r.Resolve(ctx, "Band")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUnavailable)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("failed initialization is attempted once and propagated", func(t *testing.T) {
		var attempts atomic.Int32
		adapter := catalog.NewAdapter(func(context.Context) (catalog.Client, error) {
			attempts.Add(1)
			return nil, errors.New("bootstrap failed")
		}, catalog.Options{InitTimeout: time.Second, Logger: log.New(io.Discard)})

		logger := log.New(io.Discard)
		r := NewResolver(adapter, shared.ResolverConfig{}, tasks.NewScheduler(0, logger), logger)

		_, err := r.Resolve(ctx, "Some Artist")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUnavailable)
		assert.True(t, catalog.IsInit(err))
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("initialization failure mid plan aborts the remaining strategies", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.SearchFunc = func(context.Context, catalog.Query) (*catalog.SearchResults, error) {
			return nil, catalog.Unavailable("init", errors.New("bootstrap failed"))
		}

		_, err := newTestResolver(mock, shared.ResolverConfig{}).Resolve(ctx, "Band")
		assert.ErrorIs(t, err, shared.ErrUnavailable)
		assert.Equal(t, 1, mock.Count("search"))
	})

	t.Run("empty name is invalid input", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		r := newTestResolver(mock, shared.ResolverConfig{})

		_, err := r.Resolve(ctx, "   ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, mock.Calls())
	})

	t.Run("resolution is idempotent", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Searches["Band topic"] = []catalog.Result{tu.ChannelResult("UCtopic", "Band - Topic")}

		r := newTestResolver(mock, shared.ResolverConfig{})
		first, err := r.Resolve(ctx, "Band")
		require.NoError(t, err)
		second, err := r.Resolve(ctx, "Band")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, models.SourceTopic, first.Source)
	})

	t.Run("cancelled context stops the plan", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		r := newTestResolver(mock, shared.ResolverConfig{})

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Resolve(cctx, "Band")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsArtistMatch(t *testing.T) {
	tests := []struct {
		channel, artist string
		want            bool
	}{
		{"Some Artist", "some artist", true},
		{"SomeArtistVEVO", "Some Artist", true},
		{"Some Artist - Topic", "Some Artist", true},
		{"The Some Artist Band", "some-artist", true},
		{"AC/DC", "acdc", true},
		{"Other Person", "Some Artist", false},
		{"Some", "Some Artist", false},
	}

	for _, tt := range tests {
		t.Run(tt.channel+"/"+tt.artist, func(t *testing.T) {
			assert.Equal(t, tt.want, IsArtistMatch(tt.channel, tt.artist))
		})
	}

	t.Run("case and punctuation insensitive", func(t *testing.T) {
		assert.Equal(t, IsArtistMatch("Beyoncé", "beyonce"), IsArtistMatch("BEYONCÉ!", "Beyonce"))
	})
}
