package models

type Manifest struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Types       []string  `json:"types"`
	Resources   []string  `json:"resources"`
	Catalogs    []Catalog `json:"catalogs"`
	IDPrefixes  []string  `json:"idPrefixes,omitempty"`
	Logo        string    `json:"logo,omitempty"`
}

type Catalog struct {
	Type           string   `json:"type"`
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ExtraSupported []string `json:"extraSupported,omitempty"`
}

type Meta struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Poster      string  `json:"poster,omitempty"`
	Description string  `json:"description,omitempty"`
	ReleaseInfo string  `json:"releaseInfo,omitempty"`
	Videos      []Video `json:"videos,omitempty"`
}

// Video is one selectable episode of a series meta. Its id is the
// "canonicalId:season:episode" form clients send back in stream requests.
type Video struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
}

type Stream struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

type MetaResponse struct {
	Meta *Meta `json:"meta"`
}

type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
