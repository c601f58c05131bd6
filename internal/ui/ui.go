package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Browser is the subset of the music service the TUI calls.
type Browser interface {
	Artist(ctx context.Context, name string, page int) (*models.ArtistPage, error)
	ChannelData(ctx context.Context, channelID string) (*models.ChannelData, error)
	Stream(ctx context.Context, videoID string) (*models.StreamResult, error)
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	VideoListView
	ChannelView
	StreamView
	ErrorView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	svc      Browser
	artist   string
	page     int
	view     ViewState
	back     ViewState
	width    int
	height   int
	spinner  spinner.Model
	progress <-chan tasks.ProgressUpdate
	update   tasks.ProgressUpdate
	loading  string
	retry    tea.Cmd

	artistPage  *models.ArtistPage
	videoList   list.Model
	channel     *models.ChannelData
	channelList list.Model
	stream      *streamResult

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a browser for artist. progress may be nil; otherwise it should be the
// channel the service reports its plans to.
func NewModel(ctx context.Context, svc Browser, artist string, progress <-chan tasks.ProgressUpdate) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title.UnsetMarginBottom()))
	return &Model{
		ctx:         ctx,
		svc:         svc,
		artist:      artist,
		page:        1,
		view:        LoadingView,
		spinner:     sp,
		progress:    progress,
		videoList:   list.New(nil, list.NewDefaultDelegate(), 0, 0),
		channelList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the first artist lookup.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(fmt.Sprintf("Resolving %q...", m.artist), m.fetchArtist(1)), m.waitForProgress())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		m.channelList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case VideoListView:
			return m.handleVideoListKeys(msg)
		case ChannelView:
			return m.handleChannelKeys(msg)
		case StreamView:
			return m.handleStreamKeys(msg)
		case ErrorView:
			return m.handleErrorKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.update = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgArtistFetched:
		res := msg.data.(artistResult)
		if res.err != nil {
			return m.fail(res.err)
		}
		m.artistPage = res.page
		m.page = res.page.Pagination.CurrentPage
		m.videoList.SetItems(trackItems(res.page.Content.Videos))
		m.videoList.Title = m.videoTitle()
		m.videoList.ResetSelected()
		m.view = VideoListView

	case MsgChannelFetched:
		res := msg.data.(channelResult)
		if res.err != nil {
			return m.fail(res.err)
		}
		m.channel = res.data
		m.channelList.SetItems(playlistItems(res.data.Content))
		m.channelList.Title = fmt.Sprintf("%s • playlists", res.data.Metadata.Name)
		m.channelList.ResetSelected()
		m.view = ChannelView

	case MsgStreamResolved:
		res := msg.data.(streamResult)
		if res.err != nil {
			return m.fail(res.err)
		}
		m.stream = &res
		m.view = StreamView
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case VideoListView:
		return m.renderList(m.videoList, m.keys.enter, m.keys.next, m.keys.prev, m.keys.channel, m.keys.quit)
	case ChannelView:
		return m.renderList(m.channelList, m.keys.back, m.keys.quit)
	case StreamView:
		return m.renderStream()
	case ErrorView:
		return m.renderError()
	default:
		return ""
	}
}

// Err returns the last failure, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.videoList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		if m.artistPage != nil && m.artistPage.Pagination.HasMore {
			return m, m.load(fmt.Sprintf("Loading page %d...", m.page+1), m.fetchArtist(m.page+1))
		}
		return m, nil
	case key.Matches(msg, m.keys.prev):
		if m.page > 1 {
			return m, m.load(fmt.Sprintf("Loading page %d...", m.page-1), m.fetchArtist(m.page-1))
		}
		return m, nil
	case key.Matches(msg, m.keys.channel):
		if m.artistPage != nil {
			return m, m.load("Categorizing channel playlists...", m.fetchChannel(m.artistPage.ChannelInfo.ChannelID))
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.videoList.SelectedItem().(trackItem); ok {
			return m, m.load(fmt.Sprintf("Resolving stream for %q...", item.track.Title), m.fetchStream(item.track))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleChannelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.channelList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = VideoListView
		return m, nil
	}

	var cmd tea.Cmd
	m.channelList, cmd = m.channelList.Update(msg)
	return m, cmd
}

func (m *Model) handleStreamKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.back
	}
	return m, nil
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.retry):
		if m.retry != nil {
			m.err = nil
			m.view = LoadingView
			return m, tea.Batch(m.spinner.Tick, m.retry)
		}
	case key.Matches(msg, m.keys.back):
		if m.artistPage != nil {
			m.err = nil
			m.view = VideoListView
		}
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case VideoListView:
		m.videoList, cmd = m.videoList.Update(msg)
	case ChannelView:
		m.channelList, cmd = m.channelList.Update(msg)
	}
	return m, cmd
}

// load switches to the loading view and runs fetch, remembering it for retry.
func (m *Model) load(message string, fetch tea.Cmd) tea.Cmd {
	if m.view != LoadingView && m.view != ErrorView {
		m.back = m.view
	}
	m.view = LoadingView
	m.loading = message
	m.update = tasks.ProgressUpdate{}
	m.retry = fetch
	return tea.Batch(m.spinner.Tick, fetch)
}

func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.view = ErrorView
	return m, nil
}

func (m *Model) fetchArtist(page int) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.Artist(m.ctx, m.artist, page)
		return artistFetchedMsg(result, err)
	}
}

func (m *Model) fetchChannel(id string) tea.Cmd {
	return func() tea.Msg {
		data, err := m.svc.ChannelData(m.ctx, id)
		return channelFetchedMsg(data, err)
	}
}

func (m *Model) fetchStream(track models.Track) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.Stream(m.ctx, track.ID)
		return streamResolvedMsg(track, result, err)
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	if m.progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-m.progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) videoTitle() string {
	p := m.artistPage
	name := p.Metadata.Name
	if name == "" {
		name = p.ChannelInfo.ChannelName
	}
	return fmt.Sprintf("%s • page %d/%d • %d videos (%s)", name, p.Pagination.CurrentPage, max(p.Pagination.TotalPages, 1), p.Pagination.TotalItems, p.ChannelInfo.Source)
}

func (m *Model) renderLoading() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), m.loading)
	if m.update.Message != "" {
		line := m.update.Message
		if m.update.Err != nil {
			line = styles.warn.Render(line)
		} else {
			line = styles.help.Render(line)
		}
		fmt.Fprintf(&b, "\n%s %s\n", styles.label.Render(m.update.Phase.String()), line)
	}
	return b.String()
}

func (m *Model) renderList(l list.Model, keys ...key.Binding) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderStream() string {
	s := m.stream.stream
	title := styles.ok.Render("✓ " + s.VideoDetails.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", title)
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Author:"), s.VideoDetails.Author)
	fmt.Fprintf(&b, "%s %ds\n", styles.label.Render("Length:"), s.VideoDetails.Length)
	if s.Format.MimeType != "" {
		fmt.Fprintf(&b, "%s %s (%d bps)\n", styles.label.Render("Format:"), s.Format.MimeType, s.Format.Bitrate)
	}

	langs := make([]string, 0, len(s.Captions))
	for _, c := range s.Captions {
		langs = append(langs, c.LanguageCode)
	}
	if len(langs) == 0 {
		langs = append(langs, "none")
	}
	fmt.Fprintf(&b, "%s %s\n\n", styles.label.Render("Captions:"), strings.Join(langs, ", "))
	fmt.Fprintf(&b, "%s\n\n", s.URL)
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}

func (m *Model) renderError() string {
	keys := []key.Binding{m.keys.retry, m.keys.quit}
	if m.artistPage != nil {
		keys = []key.Binding{m.keys.retry, m.keys.back, m.keys.quit}
	}
	return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), m.help.ShortHelpView(keys))
}
