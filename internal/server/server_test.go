package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/services"
	"github.com/desertthunder/soundscout/internal/shared"
)

// fakeService answers every call from its fields and records the last argument.
type fakeService struct {
	lastArg  string
	lastPage int

	artist  *models.ArtistPage
	channel *models.ChannelData
	tracks  []models.Track
	mood    *models.MoodResult
	stream  *models.StreamResult
	audio   string
	err     error
	panicky bool
}

func (f *fakeService) Artist(ctx context.Context, name string, page int) (*models.ArtistPage, error) {
	f.lastArg, f.lastPage = name, page
	return f.artist, f.err
}

func (f *fakeService) ChannelData(ctx context.Context, id string) (*models.ChannelData, error) {
	f.lastArg = id
	return f.channel, f.err
}

func (f *fakeService) GenreSongs(ctx context.Context, genre string) ([]models.Track, error) {
	f.lastArg = genre
	return f.tracks, f.err
}

func (f *fakeService) MoodPlaylists(ctx context.Context, mood string) (*models.MoodResult, error) {
	f.lastArg = mood
	return f.mood, f.err
}

func (f *fakeService) Search(ctx context.Context, q string) ([]models.Track, error) {
	if f.panicky {
		panic("boom")
	}
	f.lastArg = q
	return f.tracks, f.err
}

func (f *fakeService) Popular(ctx context.Context, country string) ([]models.Track, error) {
	f.lastArg = country
	return f.tracks, f.err
}

func (f *fakeService) Recommended(ctx context.Context) ([]models.Track, error) { return f.tracks, f.err }
func (f *fakeService) LongListens(ctx context.Context) ([]models.Track, error) { return f.tracks, f.err }

func (f *fakeService) ArtistSongs(ctx context.Context, artist string) ([]models.Track, error) {
	f.lastArg = artist
	return f.tracks, f.err
}

func (f *fakeService) Stream(ctx context.Context, id string) (*models.StreamResult, error) {
	f.lastArg = id
	return f.stream, f.err
}

func (f *fakeService) Audio(ctx context.Context, id string) (string, error) {
	f.lastArg = id
	return f.audio, f.err
}

func (f *fakeService) Health(ctx context.Context) services.Health {
	return services.Health{Status: "ok", CatalogReady: true, Time: time.Unix(0, 0).UTC()}
}

func newTestServer(svc services.Service, env string) *Server {
	return New(shared.ServerConfig{Environment: env}, svc, log.New(io.Discard))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRoutes(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		rec := get(t, newTestServer(&fakeService{}, "production"), "/health")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := decode(t, rec); body["status"] != "ok" || body["catalogReady"] != true {
			t.Errorf("unexpected body %v", body)
		}
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Error("expected a request id header")
		}
	})

	t.Run("Artist", func(t *testing.T) {
		t.Run("accepts artist alias and defaults page", func(t *testing.T) {
			svc := &fakeService{artist: &models.ArtistPage{
				ChannelInfo: models.ResolvedIdentity{ChannelID: "UCx", Source: models.SourceVevo},
				Content:     models.ArtistContent{Videos: []models.Track{{ID: "a"}}},
				Pagination:  models.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1, ItemsPerPage: 20},
			}}
			rec := get(t, newTestServer(svc, "production"), "/api/artist?artist=Some+Band&page=abc")

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if svc.lastArg != "Some Band" || svc.lastPage != 1 {
				t.Errorf("expected (Some Band, 1), got (%s, %d)", svc.lastArg, svc.lastPage)
			}

			body := decode(t, rec)
			if body["success"] != true {
				t.Error("expected success flag")
			}
			info, _ := body["channelInfo"].(map[string]any)
			if info["channelId"] != "UCx" || info["source"] != "vevo" {
				t.Errorf("unexpected channelInfo %v", info)
			}
			content, _ := body["content"].(map[string]any)
			if videos, _ := content["videos"].([]any); len(videos) != 1 {
				t.Errorf("expected one video, got %v", content)
			}
		})

		t.Run("page parameter", func(t *testing.T) {
			svc := &fakeService{artist: &models.ArtistPage{}}
			get(t, newTestServer(svc, "production"), "/api/artist?name=x&page=3")
			if svc.lastPage != 3 {
				t.Errorf("expected page 3, got %d", svc.lastPage)
			}
		})
	})

	t.Run("Genre Path And Query", func(t *testing.T) {
		svc := &fakeService{tracks: []models.Track{{ID: "g1", Title: "Song"}}}
		srv := newTestServer(svc, "production")

		rec := get(t, srv, "/api/genre/jazz")
		if rec.Code != http.StatusOK || svc.lastArg != "jazz" {
			t.Fatalf("expected jazz 200, got %s %d", svc.lastArg, rec.Code)
		}
		if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") {
			t.Errorf("expected a bare JSON array, got %s", rec.Body.String())
		}

		get(t, srv, "/api/genre-songs?genre=rock")
		if svc.lastArg != "rock" {
			t.Errorf("expected rock, got %s", svc.lastArg)
		}
	})

	t.Run("Wrapped Listings", func(t *testing.T) {
		tests := []struct {
			target string
			key    string
		}{
			{"/api/search?q=hello", "songs"},
			{"/api/popular?country=GB", "songs"},
			{"/api/recommendation", "recommended"},
			{"/api/longlistens", "listens"},
			{"/api/artist-songs?artist=Band", "songs"},
		}

		for _, tt := range tests {
			t.Run(tt.target, func(t *testing.T) {
				svc := &fakeService{tracks: []models.Track{{ID: "t1"}}}
				rec := get(t, newTestServer(svc, "production"), tt.target)

				if rec.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d", rec.Code)
				}
				if list, _ := decode(t, rec)[tt.key].([]any); len(list) != 1 {
					t.Errorf("expected %s with one entry, got %s", tt.key, rec.Body.String())
				}
			})
		}
	})

	t.Run("Video Stream", func(t *testing.T) {
		svc := &fakeService{stream: &models.StreamResult{
			URL:          "https://cdn.example/v",
			Captions:     []models.CaptionTrack{},
			VideoDetails: models.VideoDetails{Title: "Song"},
		}}
		rec := get(t, newTestServer(svc, "production"), "/api/video-stream?id=dQw4w9WgXcQ")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
			t.Errorf("unexpected Cache-Control %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected CORS header, got %q", got)
		}
		body := decode(t, rec)
		if body["url"] != "https://cdn.example/v" {
			t.Errorf("unexpected url %v", body["url"])
		}
		if _, ok := body["video_details"].(map[string]any); !ok {
			t.Error("expected video_details object")
		}
	})

	t.Run("Stream Preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(&fakeService{}, "production").ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/video-stream", nil))

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("Audio Redirect", func(t *testing.T) {
		svc := &fakeService{audio: "https://audio.example/a.m4a"}
		rec := get(t, newTestServer(svc, "production"), "/api/audio?id=dQw4w9WgXcQ")

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://audio.example/a.m4a" {
			t.Errorf("unexpected Location %q", loc)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(&fakeService{}, "production").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search?q=x", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		rec := get(t, newTestServer(&fakeService{}, "production"), "/nope")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if decode(t, rec)["error"] != "Not found" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("Panic Recovery", func(t *testing.T) {
		rec := get(t, newTestServer(&fakeService{panicky: true}, "production"), "/api/search?q=x")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if decode(t, rec)["error"] != "Internal Server Error" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid input", catalog.InvalidInput("artist", "Artist name is required"), http.StatusBadRequest, "Artist name is required"},
		{"invalid id", catalog.InvalidID("stream", "short"), http.StatusBadRequest, "Invalid video ID format"},
		{"not found", catalog.NotFound("resolve", "No matching channel found"), http.StatusNotFound, "No matching channel found"},
		{"no playable stream", catalog.NoPlayableStream("stream", "No suitable stream found"), http.StatusNotFound, "No suitable stream found"},
		{"unavailable", catalog.Unavailable("search", errors.New("reset")), http.StatusInternalServerError, "YouTube service unavailable"},
		{"timeout", catalog.Timeout("search", time.Second), http.StatusInternalServerError, "Failed to process request"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Failed to process request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&fakeService{err: tt.err}, "production"), "/api/artist?name=x")

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			body := decode(t, rec)
			if body["error"] != tt.msg {
				t.Errorf("expected error %q, got %v", tt.msg, body["error"])
			}
			if _, ok := body["details"]; ok {
				t.Error("details must not leak outside development")
			}
		})
	}

	t.Run("details in development", func(t *testing.T) {
		rec := get(t, newTestServer(&fakeService{err: errors.New("boom")}, "development"), "/api/search?q=x")

		body := decode(t, rec)
		if body["error"] != "Failed to fetch results" || body["details"] != "boom" {
			t.Errorf("unexpected body %v", body)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.HandleWith(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}), mark("route"))

		get(t, r, "/x")
		want := []string{"first", "second", "route", "handler"}
		if strings.Join(order, ",") != strings.Join(want, ",") {
			t.Errorf("expected %v, got %v", want, order)
		}
	})

	t.Run("Routes", func(t *testing.T) {
		routes := newTestServer(&fakeService{}, "production").router.Routes()
		if len(routes) != 14 {
			t.Errorf("expected 14 routes, got %d: %v", len(routes), routes)
		}
	})
}
