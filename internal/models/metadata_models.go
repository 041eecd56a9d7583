package models

import (
	"fmt"
	"strings"
)

// CanonicalID identifies a title either by IMDb id or by a provider-specific
// id. The string form is "tt..." for IMDb and "<provider>:<id>" otherwise,
// matching the id space Stremio clients send back in requests.
type CanonicalID struct {
	IMDB     string // "tt..." when known
	Provider string // provider name, e.g. "tmdb"
	ID       string // provider-local id
}

// ParseCanonicalID splits an incoming id string into its namespace.
func ParseCanonicalID(s string) CanonicalID {
	if strings.HasPrefix(s, "tt") {
		return CanonicalID{IMDB: s}
	}
	if name, id, ok := strings.Cut(s, ":"); ok && name != "" && id != "" {
		return CanonicalID{Provider: name, ID: id}
	}
	return CanonicalID{Provider: "unknown", ID: s}
}

// IsIMDB reports whether the id lives in the IMDb namespace.
func (c CanonicalID) IsIMDB() bool {
	return c.IMDB != ""
}

func (c CanonicalID) String() string {
	if c.IMDB != "" {
		return c.IMDB
	}
	return fmt.Sprintf("%s:%s", c.Provider, c.ID)
}

// Episode is one flattened season/episode entry of a series.
type Episode struct {
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
	Title   string `json:"title,omitempty"`
}

// Key returns the per-episode lookup key "canonicalId:season:episode".
func (e Episode) Key(canonicalID string) string {
	return fmt.Sprintf("%s:%d:%d", canonicalID, e.Season, e.Episode)
}

// MetadataEntry is the canonical identity attached to a download or torrent
// record. Keyed by the record id, it survives sync cycles until overwritten.
type MetadataEntry struct {
	ID       string    `json:"id"`   // canonical id string, IMDb preferred
	Name     string    `json:"name"` // display name
	Poster   string    `json:"poster,omitempty"`
	Type     string    `json:"type"` // "movie" or "series"
	TMDBID   int64     `json:"tmdb_id,omitempty"`
	Episodes []Episode `json:"episodes,omitempty"`
}

// Canonical returns the entry id as a tagged CanonicalID.
func (m *MetadataEntry) Canonical() CanonicalID {
	return ParseCanonicalID(m.ID)
}
