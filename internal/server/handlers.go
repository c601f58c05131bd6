package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/soundscout/internal/models"
)

func (s *Server) routes() {
	r := s.router
	r.Use(WithRequestID(), Recover(s.logger), AccessLog(s.logger))

	r.HandleFunc(http.MethodGet, "/health", s.handleHealth)
	r.HandleFunc(http.MethodGet, "/api/artist", s.handleArtist)
	r.HandleFunc(http.MethodGet, "/api/channel-data", s.handleChannelData)
	r.HandleFunc(http.MethodGet, "/api/genre/{genre}", s.handleGenre)
	r.HandleFunc(http.MethodGet, "/api/genre-songs", s.handleGenre)
	r.HandleFunc(http.MethodGet, "/api/mood-playlists", s.handleMoodPlaylists)
	r.HandleFunc(http.MethodGet, "/api/search", s.handleSearch)
	r.HandleFunc(http.MethodGet, "/api/popular", s.handlePopular)
	r.HandleFunc(http.MethodGet, "/api/recommendation", s.handleRecommendation)
	r.HandleFunc(http.MethodGet, "/api/longlistens", s.handleLongListens)
	r.HandleFunc(http.MethodGet, "/api/artist-songs", s.handleArtistSongs)

	r.HandleWith(http.MethodGet, "/api/video-stream", http.HandlerFunc(s.handleVideoStream), CORS())
	r.HandleWith(http.MethodGet, "/api/audio", http.HandlerFunc(s.handleAudio), CORS())

	r.Handler(notFound{})
}

// notFound answers every unregistered path.
type notFound struct{}

func (notFound) Routes() []string { return []string{"/"} }

func (notFound) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Health(r.Context()))
}

type artistResponse struct {
	Success bool `json:"success"`
	*models.ArtistPage
}

// handleArtist accepts ?name= or ?artist= and an optional ?page= (default 1).
func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		name = q.Get("artist")
	}

	result, err := s.service.Artist(r.Context(), name, pageParam(q.Get("page")))
	if err != nil {
		s.writeError(w, r, err, "Failed to process request")
		return
	}
	writeJSON(w, http.StatusOK, artistResponse{Success: true, ArtistPage: result})
}

type channelResponse struct {
	Success bool `json:"success"`
	*models.ChannelData
}

func (s *Server) handleChannelData(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ChannelData(r.Context(), r.URL.Query().Get("channelId"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch channel data")
		return
	}
	writeJSON(w, http.StatusOK, channelResponse{Success: true, ChannelData: data})
}

// handleGenre serves both /api/genre/{genre} and /api/genre-songs?genre=.
func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")
	if genre == "" {
		genre = r.URL.Query().Get("genre")
	}

	songs, err := s.service.GenreSongs(r.Context(), genre)
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch genre songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleMoodPlaylists(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.MoodPlaylists(r.Context(), r.URL.Query().Get("mood"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch mood songs")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	songs, err := s.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch results")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Track{"songs": songs})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	songs, err := s.service.Popular(r.Context(), r.URL.Query().Get("country"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch popular songs")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Track{"songs": songs})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	songs, err := s.service.Recommended(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch recommended songs")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Track{"recommended": songs})
}

type listensResponse struct {
	Success bool           `json:"success"`
	Listens []models.Track `json:"listens"`
}

func (s *Server) handleLongListens(w http.ResponseWriter, r *http.Request) {
	listens, err := s.service.LongListens(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch long listening content")
		return
	}
	writeJSON(w, http.StatusOK, listensResponse{Success: true, Listens: listens})
}

func (s *Server) handleArtistSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.service.ArtistSongs(r.Context(), r.URL.Query().Get("artist"))
	if err != nil {
		s.writeError(w, r, err, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Track{"songs": songs})
}

func (s *Server) handleVideoStream(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Stream(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, err, "Failed to fetch stream")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, result)
}

// handleAudio redirects to a direct audio-only url.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	url, err := s.service.Audio(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		s.writeError(w, r, err, "Internal Server Error")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// pageParam parses a 1-based page number; anything unparsable or below 1 is page 1.
func pageParam(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
