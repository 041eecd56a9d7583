// Package models defines data structures shared between services and handlers.
package models

type TMDBFindResponse struct {
	MovieResults []TMDBMovie `json:"movie_results"`
	TVResults    []TMDBTV    `json:"tv_results"`
}

type TMDBMovie struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Overview      string `json:"overview"`
	PosterPath    string `json:"poster_path"`
	ReleaseDate   string `json:"release_date"`
	MediaType     string `json:"media_type"`
}

type TMDBTV struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	FirstAirDate string `json:"first_air_date"`
	MediaType    string `json:"media_type"`
}

// TMDBPage is one page of a TMDB list endpoint (trending, top_rated,
// discover). Movies carry Title/ReleaseDate, series Name/FirstAirDate.
type TMDBPage struct {
	Page    int            `json:"page"`
	Results []TMDBListItem `json:"results"`
}

type TMDBListItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

// TMDBDetails is the movie/tv details shape with external ids appended
// (append_to_response=external_ids).
type TMDBDetails struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"` // movies
	Name         string `json:"name"`  // tv
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	ExternalIDs  struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
	Seasons []TMDBSeason `json:"seasons"`
}

type TMDBSeason struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

// TMDBSeasonDetails is the reply of /tv/{id}/season/{n}.
type TMDBSeasonDetails struct {
	SeasonNumber int `json:"season_number"`
	Episodes     []struct {
		EpisodeNumber int    `json:"episode_number"`
		SeasonNumber  int    `json:"season_number"`
		Name          string `json:"name"`
	} `json:"episodes"`
}

// CinemetaResponse is the reply of the Cinemeta meta endpoint.
type CinemetaResponse struct {
	Meta *CinemetaMeta `json:"meta"`
}

type CinemetaMeta struct {
	ID     string `json:"id"`
	IMDBID string `json:"imdb_id"`
	Name   string `json:"name"`
	Poster string `json:"poster"`
	Type   string `json:"type"`
	Videos []struct {
		Season  int    `json:"season"`
		Episode int    `json:"episode"`
		Title   string `json:"title"`
	} `json:"videos"`
}
