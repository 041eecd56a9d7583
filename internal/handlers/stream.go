package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cehbz/torrentname"
	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiord/internal/models"
	"github.com/amaumene/gostremiord/internal/services"
	"github.com/amaumene/gostremiord/pkg/medianame"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

// handleStream answers a playback request for a canonical id, optionally
// qualified with season and episode. Matching records come from explicit
// assignments first; when none exist the resolved title is fuzzy-matched
// against unassigned records. No match means an empty stream list, never an
// error.
func (h *Handler) handleStream(c *gin.Context) {
	mediaType := c.Param("type")
	baseID, season, episode, ok := parseStreamID(c.Param("id"), mediaType)
	if !ok {
		c.JSON(http.StatusOK, models.StreamResponse{Streams: []models.Stream{}})
		return
	}

	streams := []models.Stream{}
	origin := baseURL(c)
	assignments := h.services.Store.Snapshot()

	matchesRequest := func(filename string) bool {
		if mediaType == "series" {
			return medianame.MatchesEpisode(filename, season, episode)
		}
		return true
	}

	assignedHit := false
	for _, d := range services.HostersOnly(h.services.Sync.FileCache()) {
		entry := assignments[d.ID]
		if entry == nil || entry.ID != baseID {
			continue
		}
		assignedHit = true
		if matchesRequest(d.Filename) {
			streams = append(streams, models.Stream{
				Name:  "RD",
				Title: streamTitle(d.Filename, d.Filesize),
				URL:   d.Download,
			})
		}
	}

	for _, t := range h.services.Sync.TorrentCache() {
		entry := assignments[t.ID]
		if entry == nil || entry.ID != baseID {
			continue
		}
		assignedHit = true
		streams = append(streams, h.torrentStreams(t, origin, matchesRequest)...)
	}

	// No assignment references this id: fall back to matching the resolved
	// title against unassigned records by name.
	if !assignedHit {
		streams = append(streams, h.fuzzyStreams(baseID, mediaType, origin, assignments, matchesRequest)...)
	}

	c.JSON(http.StatusOK, models.StreamResponse{Streams: streams})
}

// torrentStreams emits one stream per selected video file that matches the
// request, linking through the playback endpoint which unrestricts the
// index-aligned hoster link on demand. Subtitle and metadata files selected
// alongside the videos never become stream entries.
func (h *Handler) torrentStreams(t realdebrid.Torrent, origin string, matches func(string) bool) []models.Stream {
	var streams []models.Stream
	for i, f := range t.Files {
		if i >= len(t.Links) {
			break
		}
		if !isVideoFile(f.Path) || !matches(f.Path) {
			continue
		}
		streams = append(streams, models.Stream{
			Name:  "RD torrent",
			Title: streamTitle(f.Path, f.Bytes),
			URL:   fmt.Sprintf("%s/play/t/%s/%d", origin, t.ID, i),
		})
	}
	return streams
}

func (h *Handler) fuzzyStreams(baseID, mediaType, origin string, assignments map[string]*models.MetadataEntry, matches func(string) bool) []models.Stream {
	entry := h.services.Metadata.Resolve(baseID, mediaType)
	if entry == nil || entry.Name == "" {
		return nil
	}

	var streams []models.Stream
	for _, d := range services.HostersOnly(h.services.Sync.FileCache()) {
		if assignments[d.ID] != nil {
			continue
		}
		if !medianame.MatchTitle(entry.Name, d.Filename) || !matches(d.Filename) {
			continue
		}
		streams = append(streams, models.Stream{
			Name:  "RD",
			Title: streamTitle(d.Filename, d.Filesize),
			URL:   d.Download,
		})
	}

	for _, t := range h.services.Sync.TorrentCache() {
		if assignments[t.ID] != nil {
			continue
		}
		if !medianame.MatchTitle(entry.Name, t.Filename) {
			continue
		}
		streams = append(streams, h.torrentStreams(t, origin, matches)...)
	}
	return streams
}

func isVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mkv", ".mp4", ".avi":
		return true
	}
	return false
}

// parseStreamID splits "tt123" or "tt123:1:5" (series) into its parts. The
// base id may itself contain colons ("tmdb:603:1:5").
func parseStreamID(id, mediaType string) (baseID string, season, episode int, ok bool) {
	if mediaType != "series" {
		return id, 0, 0, id != ""
	}

	parts := strings.Split(id, ":")
	if len(parts) < 3 {
		return "", 0, 0, false
	}

	var err error
	if season, err = strconv.Atoi(parts[len(parts)-2]); err != nil {
		return "", 0, 0, false
	}
	if episode, err = strconv.Atoi(parts[len(parts)-1]); err != nil {
		return "", 0, 0, false
	}
	baseID = strings.Join(parts[:len(parts)-2], ":")
	return baseID, season, episode, baseID != ""
}

// streamTitle annotates a filename with resolution, source and size tags.
func streamTitle(filename string, size int64) string {
	title := strings.TrimPrefix(filename, "/")

	var tags []string
	if parsed := torrentname.Parse(filename); parsed != nil {
		if parsed.Resolution != "" {
			tags = append(tags, parsed.Resolution)
		}
		if parsed.Source != "" {
			tags = append(tags, parsed.Source)
		}
	}
	if size > 0 {
		tags = append(tags, formatBytes(size))
	}

	if len(tags) == 0 {
		return title
	}
	return fmt.Sprintf("%s\n%s", title, strings.Join(tags, " | "))
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
