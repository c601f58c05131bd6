package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/tasks"
)

type fakeBrowser struct {
	pages     []int
	channels  []string
	streams   []string
	artistErr error
}

func (f *fakeBrowser) Artist(ctx context.Context, name string, page int) (*models.ArtistPage, error) {
	f.pages = append(f.pages, page)
	if f.artistErr != nil {
		return nil, f.artistErr
	}
	return &models.ArtistPage{
		ChannelInfo: models.ResolvedIdentity{ChannelID: "UCband", ChannelName: name, Source: models.SourceTopic},
		Metadata:    models.ChannelMetadata{Name: name},
		Content: models.ArtistContent{Videos: []models.Track{
			{ID: "v1", Title: "Song One", Artist: name, Duration: "3:30"},
			{ID: "v2", Title: "Song Two", Artist: name},
		}},
		Pagination: models.Pagination{CurrentPage: page, TotalPages: 2, TotalItems: 4, HasMore: page < 2, ItemsPerPage: 2},
	}, nil
}

func (f *fakeBrowser) ChannelData(ctx context.Context, id string) (*models.ChannelData, error) {
	f.channels = append(f.channels, id)
	return &models.ChannelData{
		Metadata: models.ChannelMetadata{ID: id, Name: "Band"},
		Content: models.ChannelContent{
			Albums: []models.PlaylistSummary{{ID: "PLa", Title: "Debut - Band", Year: "2020"}},
			Mixes:  []models.PlaylistSummary{{ID: "PLm", Title: "Band Mix"}},
		},
	}, nil
}

func (f *fakeBrowser) Stream(ctx context.Context, id string) (*models.StreamResult, error) {
	f.streams = append(f.streams, id)
	return &models.StreamResult{
		URL:          "https://cdn.example/" + id,
		Captions:     []models.CaptionTrack{{LanguageCode: "en"}},
		VideoDetails: models.VideoDetails{Title: "Song One", Author: "Band", Length: 210},
	}, nil
}

// drain runs cmd and feeds every resulting ui Msg back into m.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, m, c)
		}
	case Msg:
		_, next := m.Update(msg)
		drain(t, m, next)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	ctx := context.Background()

	t.Run("Init Loads First Page", func(t *testing.T) {
		fb := &fakeBrowser{}
		m := NewModel(ctx, fb, "Band", nil)

		if m.View() == "" || m.view != LoadingView {
			t.Fatal("expected loading view before the first result")
		}
		drain(t, m, m.Init())

		if m.view != VideoListView {
			t.Fatalf("expected video list, got %v", m.view)
		}
		if len(fb.pages) != 1 || fb.pages[0] != 1 {
			t.Errorf("expected one fetch of page 1, got %v", fb.pages)
		}
		if got := len(m.videoList.Items()); got != 2 {
			t.Errorf("expected 2 items, got %d", got)
		}
		if !strings.Contains(m.videoList.Title, "page 1/2") {
			t.Errorf("unexpected title %q", m.videoList.Title)
		}
	})

	t.Run("Paging", func(t *testing.T) {
		fb := &fakeBrowser{}
		m := NewModel(ctx, fb, "Band", nil)
		drain(t, m, m.Init())

		_, cmd := m.Update(runes("p"))
		if cmd != nil {
			t.Error("prev on the first page should do nothing")
		}

		_, cmd = m.Update(runes("n"))
		if m.view != LoadingView {
			t.Errorf("expected loading view, got %v", m.view)
		}
		drain(t, m, cmd)
		if m.page != 2 {
			t.Errorf("expected page 2, got %d", m.page)
		}

		_, cmd = m.Update(runes("n"))
		if cmd != nil {
			t.Error("next on the last page should do nothing")
		}
		if got := fb.pages; len(got) != 2 || got[1] != 2 {
			t.Errorf("unexpected fetches %v", got)
		}
	})

	t.Run("Channel View", func(t *testing.T) {
		fb := &fakeBrowser{}
		m := NewModel(ctx, fb, "Band", nil)
		drain(t, m, m.Init())

		_, cmd := m.Update(runes("c"))
		drain(t, m, cmd)

		if m.view != ChannelView {
			t.Fatalf("expected channel view, got %v", m.view)
		}
		if len(fb.channels) != 1 || fb.channels[0] != "UCband" {
			t.Errorf("unexpected channel fetches %v", fb.channels)
		}

		items := m.channelList.Items()
		if len(items) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(items))
		}
		album := items[0].(playlistItem)
		if desc := album.Description(); desc != "albums • by Band • 2020" {
			t.Errorf("unexpected album description %q", desc)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != VideoListView {
			t.Errorf("esc should return to the video list, got %v", m.view)
		}
	})

	t.Run("Track Descriptions", func(t *testing.T) {
		official := trackItem{track: models.Track{Artist: "Band", Duration: "3:10", Source: "official_video"}}
		if desc := official.Description(); desc != "★ Band • 3:10" {
			t.Errorf("unexpected official description %q", desc)
		}
		plain := trackItem{track: models.Track{Artist: "Band", ViewCount: "1M views", Source: "album"}}
		if desc := plain.Description(); desc != "Band • 1M views" {
			t.Errorf("unexpected description %q", desc)
		}
	})

	t.Run("Stream View", func(t *testing.T) {
		fb := &fakeBrowser{}
		m := NewModel(ctx, fb, "Band", nil)
		drain(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		drain(t, m, cmd)

		if m.view != StreamView {
			t.Fatalf("expected stream view, got %v", m.view)
		}
		if len(fb.streams) != 1 || fb.streams[0] != "v1" {
			t.Errorf("unexpected stream fetches %v", fb.streams)
		}
		if view := m.View(); !strings.Contains(view, "https://cdn.example/v1") || !strings.Contains(view, "en") {
			t.Errorf("stream view missing details:\n%s", view)
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != VideoListView {
			t.Errorf("esc should return to the video list, got %v", m.view)
		}
	})

	t.Run("Error And Retry", func(t *testing.T) {
		fb := &fakeBrowser{artistErr: errors.New("No matching channel found")}
		m := NewModel(ctx, fb, "Nobody", nil)
		drain(t, m, m.Init())

		if m.view != ErrorView || m.Err() == nil {
			t.Fatalf("expected error view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "No matching channel found") {
			t.Errorf("error view missing message:\n%s", m.View())
		}

		fb.artistErr = nil
		_, cmd := m.Update(runes("r"))
		drain(t, m, cmd)

		if m.view != VideoListView {
			t.Errorf("expected retry to recover, got %v", m.view)
		}
		if len(fb.pages) != 2 {
			t.Errorf("expected 2 fetches, got %v", fb.pages)
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		progress := make(chan tasks.ProgressUpdate, 1)
		m := NewModel(ctx, &fakeBrowser{}, "Band", progress)

		progress <- tasks.ProgressUpdate{Phase: tasks.ResolveIdentity, Step: 1, Total: 4, Message: "[1/4] official_artist..."}
		_, cmd := m.Update(m.waitForProgress()())
		if cmd == nil {
			t.Error("expected the progress listener to be re-armed")
		}
		if !strings.Contains(m.View(), "[1/4] official_artist...") {
			t.Errorf("loading view missing progress:\n%s", m.View())
		}

		close(progress)
		if msg := m.waitForProgress()(); msg != nil {
			t.Errorf("expected nil after close, got %v", msg)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := NewModel(ctx, &fakeBrowser{}, "Band", nil)
		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
