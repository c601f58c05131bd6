package stream

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
	tu "github.com/desertthunder/soundscout/internal/testing"
)

const videoID = "dQw4w9WgXcQ"

func newTestResolver(mock *tu.MockCatalog) *Resolver {
	return NewResolver(mock, log.New(io.Discard))
}

func basic(sd *catalog.StreamingData) *catalog.BasicInfo {
	return &catalog.BasicInfo{
		Title:         "Song",
		Author:        "Band",
		Duration:      212,
		Thumbnails:    []models.Thumbnail{{URL: "https://i.ytimg.com/vi/x/hq.jpg"}, {URL: "https://i.ytimg.com/vi/x/mq.jpg"}},
		StreamingData: sd,
	}
}

func TestSelectFormat(t *testing.T) {
	combinedLow := models.StreamFormat{URL: "c-low", Bitrate: 500, HasVideo: true, HasAudio: true}
	combinedHigh := models.StreamFormat{URL: "c-high", Bitrate: 2000, HasVideo: true, HasAudio: true}
	videoOnly := models.StreamFormat{URL: "v", Bitrate: 9000, HasVideo: true}
	audioLow := models.StreamFormat{URL: "a-low", Bitrate: 128, HasAudio: true}
	audioHigh := models.StreamFormat{URL: "a-high", Bitrate: 160, HasAudio: true}

	tests := []struct {
		name string
		sd   *catalog.StreamingData
		want string
		ok   bool
	}{
		{"nil", nil, "", false},
		{"combined wins", &catalog.StreamingData{Formats: []models.StreamFormat{combinedLow, combinedHigh}, AdaptiveFormats: []models.StreamFormat{audioHigh}}, "c-high", true},
		{"adaptive with both", &catalog.StreamingData{AdaptiveFormats: []models.StreamFormat{audioHigh, combinedLow, videoOnly}}, "c-low", true},
		{"audio only", &catalog.StreamingData{AdaptiveFormats: []models.StreamFormat{audioLow, videoOnly, audioHigh}}, "a-high", true},
		{"video only is not playable", &catalog.StreamingData{AdaptiveFormats: []models.StreamFormat{videoOnly}}, "", false},
		{"empty", &catalog.StreamingData{}, "", false},
		{"equal bitrate keeps order", &catalog.StreamingData{Formats: []models.StreamFormat{{URL: "first", Bitrate: 1, HasVideo: true, HasAudio: true}, {URL: "second", Bitrate: 1, HasVideo: true, HasAudio: true}}}, "first", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectFormat(tt.sd)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.URL)
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed id fails before any call", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		r := newTestResolver(mock)

		_, err := r.Resolve(ctx, "short")
		assert.ErrorIs(t, err, shared.ErrInvalidID)
		assert.Equal(t, "Invalid video ID format", catalog.Message(err, ""))
		assert.Empty(t, mock.Calls())

		_, err = r.Resolve(ctx, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, mock.Calls())
	})

	t.Run("audio-only video without captions", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Infos[videoID] = &catalog.VideoInfo{ID: videoID, Basic: basic(&catalog.StreamingData{
			AdaptiveFormats: []models.StreamFormat{
				{URL: "a-low", Bitrate: 128, HasAudio: true},
				{URL: "a-high", Bitrate: 160, HasAudio: true},
			},
		})}

		got, err := newTestResolver(mock).Resolve(ctx, videoID)
		require.NoError(t, err)

		assert.Equal(t, "a-high", got.URL)
		assert.NotNil(t, got.Captions)
		assert.Empty(t, got.Captions)
		assert.Equal(t, models.VideoDetails{Title: "Song", Author: "Band", Length: 212, Thumbnail: "https://i.ytimg.com/vi/x/hq.jpg"}, got.VideoDetails)
		assert.Zero(t, mock.Count("basic_info"))
	})

	t.Run("captions", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Infos[videoID] = &catalog.VideoInfo{
			ID:    videoID,
			Basic: basic(&catalog.StreamingData{Formats: []models.StreamFormat{{URL: "c", Bitrate: 1, HasVideo: true, HasAudio: true}}}),
			Captions: []catalog.CaptionTrack{
				{Name: "English", LanguageCode: "en", URL: "https://cap/en", IsTranslatable: true},
				{LanguageCode: "de", URL: "https://cap/de"},
			},
		}

		got, err := newTestResolver(mock).Resolve(ctx, videoID)
		require.NoError(t, err)
		assert.Equal(t, []models.CaptionTrack{
			{LanguageName: "English", LanguageCode: "en", URL: "https://cap/en", IsTranslatable: true},
			{LanguageName: "DE", LanguageCode: "de", URL: "https://cap/de"},
		}, got.Captions)
	})

	t.Run("falls back to basic info", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.InfoErr = errors.New("sign in to confirm")
		mock.BasicInfos[videoID] = &catalog.VideoInfo{ID: videoID, Basic: basic(&catalog.StreamingData{
			Formats: []models.StreamFormat{{URL: "basic", Bitrate: 10, HasVideo: true, HasAudio: true}},
		})}

		got, err := newTestResolver(mock).Resolve(ctx, videoID)
		require.NoError(t, err)
		assert.Equal(t, "basic", got.URL)
		assert.Equal(t, 1, mock.Count("basic_info"))
	})

	t.Run("both info calls failing propagates", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.InfoErr = errors.New("full")
		mock.BasicErr = catalog.Timeout("basic_info", time.Second)

		_, err := newTestResolver(mock).Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrTimeout)
	})

	t.Run("no basic info is not found", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		_, err := newTestResolver(mock).Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Could not retrieve video information", catalog.Message(err, ""))
	})

	t.Run("missing streaming data uses direct lookup", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Infos[videoID] = &catalog.VideoInfo{ID: videoID, Basic: basic(nil)}
		mock.Streams[videoID] = &models.StreamFormat{URL: "direct", HasVideo: true, HasAudio: true}

		got, err := newTestResolver(mock).Resolve(ctx, videoID)
		require.NoError(t, err)
		assert.Equal(t, "direct", got.URL)
		assert.Equal(t, 1, mock.Count("streaming_data"))
	})

	t.Run("direct lookup failure is no playable stream", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Infos[videoID] = &catalog.VideoInfo{ID: videoID, Basic: basic(nil)}
		mock.StreamErr = errors.New("nope")

		_, err := newTestResolver(mock).Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrNoPlayableStream)
		assert.Equal(t, "No suitable stream found", catalog.Message(err, ""))
	})

	t.Run("present but unusable streaming data skips direct lookup", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Infos[videoID] = &catalog.VideoInfo{ID: videoID, Basic: basic(&catalog.StreamingData{
			AdaptiveFormats: []models.StreamFormat{{URL: "v", HasVideo: true}},
		})}

		_, err := newTestResolver(mock).Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrNoPlayableStream)
		assert.Zero(t, mock.Count("streaming_data"))
	})
}

type fakeFetcher struct {
	out   string
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) AudioURL(context.Context, string) (string, error) {
	f.calls.Add(1)
	return f.out, f.err
}

type memStore struct {
	urls map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{urls: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, id string) (string, bool, error) {
	u, ok := m.urls[id]
	return u, ok, nil
}

func (m *memStore) Put(_ context.Context, id, url string, ttl time.Duration) error {
	m.urls[id] = url
	m.ttls[id] = ttl
	return nil
}

func TestAudioResolver(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard)

	t.Run("fetches and caches", func(t *testing.T) {
		f := &fakeFetcher{out: "https://rr1.googlevideo.com/audio\n"}
		store := newMemStore()
		a := NewAudioResolver(f, store, shared.YtDlpConfig{}, logger)

		for range 3 {
			url, err := a.Resolve(ctx, videoID)
			require.NoError(t, err)
			assert.Equal(t, "https://rr1.googlevideo.com/audio", url)
		}
		assert.EqualValues(t, 1, f.calls.Load())
		assert.Equal(t, "https://rr1.googlevideo.com/audio", store.urls[videoID])
		assert.Equal(t, 24*time.Hour, store.ttls[videoID])
	})

	t.Run("store tier is read before fetching", func(t *testing.T) {
		f := &fakeFetcher{out: "https://fresh"}
		store := newMemStore()
		store.urls[videoID] = "https://stored"
		a := NewAudioResolver(f, store, shared.YtDlpConfig{}, logger)

		url, err := a.Resolve(ctx, videoID)
		require.NoError(t, err)
		assert.Equal(t, "https://stored", url)
		assert.Zero(t, f.calls.Load())
	})

	t.Run("first line of multi-line output", func(t *testing.T) {
		f := &fakeFetcher{out: "\nhttps://one\nhttps://two\n"}
		a := NewAudioResolver(f, nil, shared.YtDlpConfig{}, logger)

		url, err := a.Resolve(ctx, videoID)
		require.NoError(t, err)
		assert.Equal(t, "https://one", url)
	})

	t.Run("non-url output is rejected", func(t *testing.T) {
		f := &fakeFetcher{out: "ERROR: video unavailable"}
		a := NewAudioResolver(f, nil, shared.YtDlpConfig{}, logger)

		_, err := a.Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrInvalidAudioURL)
		assert.Equal(t, "Failed to retrieve audio", catalog.Message(err, ""))

		_, err = a.Resolve(ctx, videoID)
		require.Error(t, err)
		assert.EqualValues(t, 2, f.calls.Load(), "failures are not cached")
	})

	t.Run("fetch error", func(t *testing.T) {
		f := &fakeFetcher{err: errors.New("exit status 1")}
		a := NewAudioResolver(f, nil, shared.YtDlpConfig{}, logger)

		_, err := a.Resolve(ctx, videoID)
		assert.ErrorIs(t, err, shared.ErrUnavailable)
		assert.Contains(t, err.Error(), "exit status 1")
	})

	t.Run("invalid id", func(t *testing.T) {
		f := &fakeFetcher{}
		a := NewAudioResolver(f, nil, shared.YtDlpConfig{}, logger)

		for _, id := range []string{"", "short", "has space!!"} {
			_, err := a.Resolve(ctx, id)
			assert.ErrorIs(t, err, shared.ErrInvalidID)
			assert.Equal(t, "Invalid or missing video ID", catalog.Message(err, ""))
		}
		assert.Zero(t, f.calls.Load())
	})

	t.Run("purge drops the memory tier", func(t *testing.T) {
		f := &fakeFetcher{out: "https://x"}
		a := NewAudioResolver(f, nil, shared.YtDlpConfig{}, logger)

		_, _ = a.Resolve(ctx, videoID)
		a.Purge()
		_, _ = a.Resolve(ctx, videoID)
		assert.EqualValues(t, 2, f.calls.Load())
	})
}
