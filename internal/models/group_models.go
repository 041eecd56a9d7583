package models

// GroupMember is one record folded into a group: either a downloads-list
// entry or a whole torrent, never both kinds in one group.
type GroupMember struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url,omitempty"`
}

// Group is a derived cluster of records believed to represent the same
// title, keyed by the normalized filename fingerprint. Groups are rebuilt on
// every read and never cached across requests.
type Group struct {
	Key          string        `json:"key"`
	DisplayName  string        `json:"displayName"`
	Members      []GroupMember `json:"files"`
	Size         int64         `json:"size"`
	Type         string        `json:"type"` // "movie" or "series"
	IsTorrent    bool          `json:"isTorrent"`
	Hidden       bool          `json:"hidden"`
	AssignedID   string        `json:"assignedId,omitempty"`
	DetectedName string        `json:"detectedName,omitempty"`
	Poster       string        `json:"poster,omitempty"`
	Status       string        `json:"status,omitempty"`   // torrent status of the last member
	Progress     float64       `json:"progress,omitempty"` // torrent progress percent
	Streamable   int           `json:"streamable,omitempty"`
}

// Identified reports whether a metadata entry has been attached.
func (g *Group) Identified() bool {
	return g.AssignedID != ""
}

// GroupStats aggregates totals over a grouped view.
type GroupStats struct {
	TotalFiles int   `json:"totalFiles"`
	TotalSize  int64 `json:"totalSize"`
}
