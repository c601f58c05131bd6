package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/soundscout/internal/shared"
)

type recorded struct {
	mu     sync.Mutex
	bodies map[string]map[string]any
	agents map[string]string
}

func (r *recorded) body(endpoint string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[endpoint]
}

func newInnertubeServer(t *testing.T, routes map[string]string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{bodies: map[string]map[string]any{}, agents: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/sw.js_data", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `)]}'[["x","CgtWaXNpdG9ySWQxMjM%3D"]]`)
	})
	mux.HandleFunc("/youtubei/v1/{endpoint}", func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.PathValue("endpoint")
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		rec.mu.Lock()
		rec.bodies[endpoint] = body
		rec.agents[endpoint] = r.Header.Get("User-Agent")
		rec.mu.Unlock()

		resp, ok := routes[endpoint]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, resp)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestInnertube(srv *httptest.Server) *Innertube {
	cfg := shared.DefaultConfig().Catalog
	cfg.RetryMax = 0
	cfg.RateLimit = 0
	tube := NewInnertube(cfg, log.New(io.Discard))
	tube.baseURL = srv.URL + "/youtubei/v1"
	return tube
}

func TestInnertube(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstrap stores visitor data", func(t *testing.T) {
		srv, rec := newInnertubeServer(t, map[string]string{"search": searchFixture})
		tube := newTestInnertube(srv)

		require.NoError(t, tube.Bootstrap(ctx))
		assert.Equal(t, "CgtWaXNpdG9ySWQxMjM%3D", tube.visitor())

		_, err := tube.Search(ctx, Query{Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, "CgtWaXNpdG9ySWQxMjM%3D", dig(rec.body("search"), "context", "client", "visitorData"))
	})

	t.Run("search sends query and params", func(t *testing.T) {
		srv, rec := newInnertubeServer(t, map[string]string{"search": searchFixture})
		tube := newTestInnertube(srv)

		res, err := tube.Search(ctx, Query{Text: "some artist", Type: TypeChannel, Locale: "fr", Region: "FR"})
		require.NoError(t, err)
		assert.Len(t, res.Results, 4)

		body := rec.body("search")
		assert.Equal(t, "some artist", body["query"])
		assert.Equal(t, "EgIQAg==", body["params"])
		assert.Equal(t, "fr", dig(body, "context", "client", "hl"))
		assert.Equal(t, "FR", dig(body, "context", "client", "gl"))
		assert.Equal(t, "WEB", dig(body, "context", "client", "clientName"))
	})

	t.Run("search without hints omits params", func(t *testing.T) {
		srv, rec := newInnertubeServer(t, map[string]string{"search": searchFixture})
		tube := newTestInnertube(srv)

		_, err := tube.Search(ctx, Query{Text: "x"})
		require.NoError(t, err)
		_, ok := rec.body("search")["params"]
		assert.False(t, ok)
		assert.Equal(t, "en", dig(rec.body("search"), "context", "client", "hl"))
	})

	t.Run("non 200 responses fail", func(t *testing.T) {
		srv, _ := newInnertubeServer(t, map[string]string{})
		tube := newTestInnertube(srv)

		_, err := tube.Search(ctx, Query{Text: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("malformed json fails", func(t *testing.T) {
		srv, _ := newInnertubeServer(t, map[string]string{"search": "<html>"})
		tube := newTestInnertube(srv)

		_, err := tube.Search(ctx, Query{Text: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})

	t.Run("channel requires an id", func(t *testing.T) {
		srv, _ := newInnertubeServer(t, nil)
		_, err := newTestInnertube(srv).Channel(ctx, "  ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("playlist browses with VL prefix", func(t *testing.T) {
		srv, rec := newInnertubeServer(t, map[string]string{"browse": `{"metadata":{"playlistMetadataRenderer":{"title":"Hits"}},"contents":{}}`})
		tube := newTestInnertube(srv)

		pl, err := tube.Playlist(ctx, "PL123")
		require.NoError(t, err)
		assert.Equal(t, "Hits", pl.Info["title"])
		assert.Equal(t, "VLPL123", rec.body("browse")["browseId"])
	})

	t.Run("player uses the android client", func(t *testing.T) {
		srv, rec := newInnertubeServer(t, map[string]string{"player": `{"videoDetails":{"title":"Song","author":"Artist","lengthSeconds":"10"}}`})
		tube := newTestInnertube(srv)

		info, err := tube.Player(ctx, "abcdefghijk")
		require.NoError(t, err)
		require.NotNil(t, info.Basic)
		assert.Equal(t, "Song", info.Basic.Title)
		assert.Equal(t, "ANDROID", dig(rec.body("player"), "context", "client", "clientName"))
		assert.Equal(t, androidUserAgent, rec.agents["player"])
	})
}
