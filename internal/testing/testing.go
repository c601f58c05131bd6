// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
)

// MockCatalog is a test double for catalog.Client that records every call.
//
// Searches are answered from Searches by exact query text (empty results when absent);
// channels and playlists missing from their maps fail with a not-found error.
type MockCatalog struct {
	mu sync.Mutex

	Searches   map[string][]catalog.Result
	SearchErrs map[string]error
	Channels   map[string]*catalog.Channel
	Playlists  map[string]*catalog.Playlist
	Infos      map[string]*catalog.VideoInfo
	InfoErr    error
	BasicInfos map[string]*catalog.VideoInfo
	BasicErr   error
	Streams    map[string]*models.StreamFormat
	StreamErr  error

	// SearchFunc, when set, answers every search.
	SearchFunc func(ctx context.Context, q catalog.Query) (*catalog.SearchResults, error)

	calls []Call
}

// Call is one recorded catalog operation.
type Call struct {
	Op    string
	Arg   string
	Query catalog.Query
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Searches:   map[string][]catalog.Result{},
		SearchErrs: map[string]error{},
		Channels:   map[string]*catalog.Channel{},
		Playlists:  map[string]*catalog.Playlist{},
		Infos:      map[string]*catalog.VideoInfo{},
		BasicInfos: map[string]*catalog.VideoInfo{},
		Streams:    map[string]*models.StreamFormat{},
	}
}

func (m *MockCatalog) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of the recorded calls in order.
func (m *MockCatalog) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Count returns how many times op was called.
func (m *MockCatalog) Count(op string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Queries returns the text of every search in call order.
func (m *MockCatalog) Queries() []string {
	var out []string
	for _, c := range m.Calls() {
		if c.Op == "search" {
			out = append(out, c.Query.Text)
		}
	}
	return out
}

func (m *MockCatalog) Search(ctx context.Context, q catalog.Query) (*catalog.SearchResults, error) {
	m.record(Call{Op: "search", Arg: q.Text, Query: q})
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.SearchErrs[q.Text]; err != nil {
		return nil, err
	}
	return &catalog.SearchResults{Results: m.Searches[q.Text]}, nil
}

func (m *MockCatalog) GetChannel(ctx context.Context, id string) (*catalog.Channel, error) {
	m.record(Call{Op: "channel", Arg: id})
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.Channels[id]; ok {
		return ch, nil
	}
	return nil, catalog.NotFound("channel", "Channel not found")
}

func (m *MockCatalog) GetPlaylist(ctx context.Context, id string) (*catalog.Playlist, error) {
	m.record(Call{Op: "playlist", Arg: id})
	m.mu.Lock()
	defer m.mu.Unlock()
	if pl, ok := m.Playlists[id]; ok {
		return pl, nil
	}
	return nil, catalog.NotFound("playlist", "Playlist not found")
}

func (m *MockCatalog) GetInfo(ctx context.Context, id string) (*catalog.VideoInfo, error) {
	m.record(Call{Op: "info", Arg: id})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if info, ok := m.Infos[id]; ok {
		return info, nil
	}
	return &catalog.VideoInfo{ID: id}, nil
}

func (m *MockCatalog) GetBasicInfo(ctx context.Context, id string) (*catalog.VideoInfo, error) {
	m.record(Call{Op: "basic_info", Arg: id})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BasicErr != nil {
		return nil, m.BasicErr
	}
	if info, ok := m.BasicInfos[id]; ok {
		return info, nil
	}
	return &catalog.VideoInfo{ID: id}, nil
}

func (m *MockCatalog) GetStreamingData(ctx context.Context, id string, opts catalog.StreamOptions) (*models.StreamFormat, error) {
	m.record(Call{Op: "streaming_data", Arg: id})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}
	if f, ok := m.Streams[id]; ok {
		return f, nil
	}
	return nil, catalog.NoPlayableStream("streaming_data", "No video+audio stream available")
}

var _ catalog.Client = (*MockCatalog)(nil)

// Video builds a raw video node.
func Video(id, title, author string) catalog.Result {
	r := catalog.Result{
		"type":       catalog.KindVideo,
		"id":         id,
		"title":      map[string]any{"runs": []any{map[string]any{"text": title}}},
		"thumbnails": []any{map[string]any{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg", "width": 480, "height": 360}},
	}
	if author != "" {
		r["author"] = map[string]any{"id": "UC" + strings.ReplaceAll(strings.ToLower(author), " ", ""), "name": author}
	}
	return r
}

// ChannelResult builds a raw channel search node.
func ChannelResult(id, name string) catalog.Result {
	return catalog.Result{
		"type":       catalog.KindChannel,
		"id":         id,
		"name":       name,
		"thumbnails": []any{map[string]any{"url": "https://yt3.ggpht.com/" + id + ".jpg"}},
	}
}

// PlaylistResult builds a raw playlist search node.
func PlaylistResult(id, title string) catalog.Result {
	return catalog.Result{
		"type":        catalog.KindPlaylist,
		"id":          id,
		"title":       title,
		"thumbnails":  []any{map[string]any{"url": "https://i.ytimg.com/pl/" + id + ".jpg"}},
		"video_count": map[string]any{"text": "10 videos"},
	}
}

// Videos builds n raw video nodes with ids prefix0..prefixN-1.
func Videos(prefix string, n int) []catalog.Result {
	out := make([]catalog.Result, n)
	for i := range n {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = Video(id, "Song "+id, "Artist")
	}
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
