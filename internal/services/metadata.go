package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/amaumene/gostremiord/internal/cache"
	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/internal/models"
	"github.com/amaumene/gostremiord/pkg/httputil"
	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/ratelimiter"
)

const (
	defaultTMDBBaseURL     = "https://api.themoviedb.org/3"
	defaultCinemetaBaseURL = "https://v3-cinemeta.strem.io"
	tmdbPosterBaseURL      = "https://image.tmdb.org/t/p/w500"

	// TMDB list endpoints return fixed pages of 20 results.
	discoverPageSize = 20

	discoverWatchRegion = "US"
)

// watchProviders maps browse catalog ids to TMDB watch-provider ids for the
// discover endpoint.
var watchProviders = map[string]string{
	"netflix": "8",
	"hbo":     "384",
	"disney":  "337",
	"amazon":  "119",
	"apple":   "350",
}

// IsDiscoverCatalog reports whether catalogID names one of the TMDB browse
// catalogs served by Discover.
func IsDiscoverCatalog(catalogID string) bool {
	if catalogID == "trending" || catalogID == "top_rated" {
		return true
	}
	_, ok := watchProviders[catalogID]
	return ok
}

// negativeEntry marks a failed lookup in the cache so it is not retried
// within the TTL window.
var negativeEntry = &models.MetadataEntry{}

// MetadataService resolves canonical identity (IMDb or provider id, display
// name, poster, type, episode list) for user-supplied identifiers. Lookups
// go through an ordered provider chain: TMDB first, Cinemeta as fallback for
// IMDb ids. Results, including failures, are cached with a TTL; concurrent
// identical lookups share one in-flight request.
type MetadataService struct {
	apiKey     string
	cache      *cache.LRUCache
	httpClient *http.Client
	limiter    *ratelimiter.TokenBucket
	logger     logger.Logger
	sf         singleflight.Group

	tmdbBaseURL     string
	cinemetaBaseURL string
}

// NewMetadataService creates a resolver. An empty TMDB apiKey disables the
// TMDB strategies; Cinemeta still works for IMDb ids.
func NewMetadataService(apiKey string, c *cache.LRUCache, log logger.Logger) *MetadataService {
	return &MetadataService{
		apiKey:          apiKey,
		cache:           c,
		httpClient:      httputil.NewHTTPClient(constants.MetadataRequestTimeout),
		limiter:         ratelimiter.NewTokenBucket(constants.TMDBRateLimit, constants.TMDBRateBurst),
		logger:          log,
		tmdbBaseURL:     defaultTMDBBaseURL,
		cinemetaBaseURL: defaultCinemetaBaseURL,
	}
}

// SetBaseURLs overrides the provider endpoints, used by tests.
func (m *MetadataService) SetBaseURLs(tmdb, cinemeta string) {
	m.tmdbBaseURL = tmdb
	m.cinemetaBaseURL = cinemeta
}

// Resolve looks up the canonical identity for id. mediaType ("movie",
// "series" or empty) narrows provider-id lookups. Returns nil when nothing
// could be resolved; callers treat nil as "leave unidentified".
func (m *MetadataService) Resolve(id, mediaType string) *models.MetadataEntry {
	cacheKey := fmt.Sprintf("meta:%s:%s", id, mediaType)

	if v, found := m.cache.Get(cacheKey); found {
		entry := v.(*models.MetadataEntry)
		if entry == negativeEntry {
			return nil
		}
		return entry
	}

	v, _, _ := m.sf.Do(cacheKey, func() (interface{}, error) {
		entry := m.lookup(id, mediaType)
		if entry == nil {
			m.cache.Set(cacheKey, negativeEntry)
		} else {
			m.cache.Set(cacheKey, entry)
		}
		return entry, nil
	})

	entry, _ := v.(*models.MetadataEntry)
	return entry
}

// lookup runs the provider chain for id and returns the first hit.
func (m *MetadataService) lookup(id, mediaType string) *models.MetadataEntry {
	cid := models.ParseCanonicalID(id)

	switch {
	case cid.IsIMDB():
		if entry := m.resolveIMDBViaTMDB(id); entry != nil {
			return entry
		}
		return m.resolveCinemeta(id)
	case cid.Provider == "tmdb":
		return m.resolveTMDBDetails(cid.ID, mediaType)
	default:
		m.logger.Debugf("[Metadata] unsupported id namespace: %s", id)
		return nil
	}
}

// resolveIMDBViaTMDB maps an IMDb id through TMDB's find endpoint.
func (m *MetadataService) resolveIMDBViaTMDB(imdbID string) *models.MetadataEntry {
	var found models.TMDBFindResponse
	params := url.Values{"external_source": {"imdb_id"}}
	if err := m.tmdbGet("/find/"+url.PathEscape(imdbID), params, &found); err != nil {
		m.logger.Debugf("[Metadata] TMDB find for %s failed: %v", imdbID, err)
		return nil
	}

	if len(found.MovieResults) > 0 {
		movie := found.MovieResults[0]
		return &models.MetadataEntry{
			ID:     imdbID,
			Name:   movie.Title,
			Poster: posterURL(movie.PosterPath),
			Type:   "movie",
			TMDBID: movie.ID,
		}
	}

	if len(found.TVResults) > 0 {
		tv := found.TVResults[0]
		entry := &models.MetadataEntry{
			ID:     imdbID,
			Name:   tv.Name,
			Poster: posterURL(tv.PosterPath),
			Type:   "series",
			TMDBID: tv.ID,
		}
		entry.Episodes = m.tmdbSeriesEpisodes(tv.ID)
		return entry
	}
	return nil
}

// resolveCinemeta recovers identity from Cinemeta, trying the series shape
// before the movie shape.
func (m *MetadataService) resolveCinemeta(imdbID string) *models.MetadataEntry {
	for _, mediaType := range []string{"series", "movie"} {
		endpoint := fmt.Sprintf("%s/meta/%s/%s.json", m.cinemetaBaseURL, mediaType, url.PathEscape(imdbID))

		resp, err := m.httpClient.Get(endpoint)
		if err != nil {
			m.logger.Debugf("[Metadata] cinemeta %s lookup for %s failed: %v", mediaType, imdbID, err)
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			continue
		}

		var result models.CinemetaResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil || result.Meta == nil {
			continue
		}

		meta := result.Meta
		id := meta.IMDBID
		if id == "" {
			id = meta.ID
		}
		entry := &models.MetadataEntry{
			ID:     id,
			Name:   meta.Name,
			Poster: meta.Poster,
			Type:   mediaType,
		}
		for _, v := range meta.Videos {
			if v.Season > 0 && v.Episode > 0 {
				entry.Episodes = append(entry.Episodes, models.Episode{
					Season:  v.Season,
					Episode: v.Episode,
					Title:   v.Title,
				})
			}
		}
		sortEpisodes(entry.Episodes)
		return entry
	}
	return nil
}

// resolveTMDBDetails fetches details plus external ids for a TMDB id in one
// call. The cross-referenced IMDb id becomes the canonical id when present,
// so downstream consumers keyed on IMDb ids keep working.
func (m *MetadataService) resolveTMDBDetails(tmdbID, mediaType string) *models.MetadataEntry {
	tmdbType := "movie"
	if mediaType == "series" {
		tmdbType = "tv"
	}

	var details models.TMDBDetails
	params := url.Values{"append_to_response": {"external_ids"}}
	path := fmt.Sprintf("/%s/%s", tmdbType, url.PathEscape(tmdbID))
	if err := m.tmdbGet(path, params, &details); err != nil {
		m.logger.Debugf("[Metadata] TMDB details for %s/%s failed: %v", tmdbType, tmdbID, err)
		return nil
	}

	canonical := details.ExternalIDs.IMDBID
	if canonical == "" {
		canonical = "tmdb:" + tmdbID
	}
	name := details.Title
	if name == "" {
		name = details.Name
	}

	entry := &models.MetadataEntry{
		ID:     canonical,
		Name:   name,
		Poster: posterURL(details.PosterPath),
		Type:   mediaType,
		TMDBID: details.ID,
	}
	if mediaType == "series" {
		entry.Episodes = m.tmdbSeriesEpisodes(details.ID)
	}
	return entry
}

// tmdbSeriesEpisodes flattens every season's episode list of a TMDB series
// into entries sorted by (season, episode) ascending.
func (m *MetadataService) tmdbSeriesEpisodes(tvID int64) []models.Episode {
	var details models.TMDBDetails
	if err := m.tmdbGet(fmt.Sprintf("/tv/%d", tvID), url.Values{}, &details); err != nil {
		m.logger.Debugf("[Metadata] TMDB seasons for %d failed: %v", tvID, err)
		return nil
	}

	var episodes []models.Episode
	for _, season := range details.Seasons {
		if season.SeasonNumber == 0 {
			continue // specials
		}

		var seasonDetails models.TMDBSeasonDetails
		path := fmt.Sprintf("/tv/%d/season/%d", tvID, season.SeasonNumber)
		if err := m.tmdbGet(path, url.Values{}, &seasonDetails); err != nil {
			m.logger.Debugf("[Metadata] TMDB season %d of %d failed: %v", season.SeasonNumber, tvID, err)
			continue
		}

		for _, ep := range seasonDetails.Episodes {
			episodes = append(episodes, models.Episode{
				Season:  season.SeasonNumber,
				Episode: ep.EpisodeNumber,
				Title:   ep.Name,
			})
		}
	}

	sortEpisodes(episodes)
	return episodes
}

func sortEpisodes(episodes []models.Episode) {
	sort.Slice(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Episode < episodes[j].Episode
	})
}

// Discover serves the browse catalogs (trending, top rated, per-provider)
// straight from TMDB. skip is the client's paging offset; two TMDB pages are
// fetched per request so a client scrolling in steps of 20 stays ahead of
// the next page boundary. Entries without a poster are dropped. Failures
// yield a short or empty list, never an error.
func (m *MetadataService) Discover(catalogID, mediaType string, skip int) []models.Meta {
	tmdbType := "movie"
	if mediaType == "series" {
		tmdbType = "tv"
	}

	var path string
	params := url.Values{"include_adult": {"false"}}
	switch {
	case catalogID == "trending":
		path = fmt.Sprintf("/trending/%s/week", tmdbType)
	case catalogID == "top_rated":
		path = fmt.Sprintf("/%s/top_rated", tmdbType)
	default:
		provider, ok := watchProviders[catalogID]
		if !ok {
			return nil
		}
		path = "/discover/" + tmdbType
		params.Set("with_watch_providers", provider)
		params.Set("watch_region", discoverWatchRegion)
		params.Set("sort_by", "popularity.desc")
	}

	startPage := skip/discoverPageSize + 1
	var metas []models.Meta
	for page := startPage; page <= startPage+1; page++ {
		var result models.TMDBPage
		params.Set("page", strconv.Itoa(page))
		if err := m.tmdbGet(path, params, &result); err != nil {
			m.logger.Debugf("[Metadata] TMDB catalog %s page %d failed: %v", catalogID, page, err)
			break
		}
		if len(result.Results) == 0 {
			break
		}
		for _, item := range result.Results {
			if item.PosterPath == "" {
				continue
			}
			name := item.Title
			if name == "" {
				name = item.Name
			}
			metas = append(metas, models.Meta{
				ID:          fmt.Sprintf("tmdb:%d", item.ID),
				Type:        mediaType,
				Name:        name,
				Poster:      posterURL(item.PosterPath),
				Description: item.Overview,
				ReleaseInfo: releaseYear(item.ReleaseDate, item.FirstAirDate),
			})
		}
	}
	return metas
}

func releaseYear(dates ...string) string {
	for _, d := range dates {
		if len(d) >= 4 {
			return d[:4]
		}
	}
	return ""
}

// tmdbGet performs one rate-limited TMDB API call.
func (m *MetadataService) tmdbGet(path string, params url.Values, result interface{}) error {
	if m.apiKey == "" {
		return fmt.Errorf("TMDB API key not configured")
	}

	m.limiter.Wait()
	params.Set("api_key", m.apiKey)
	endpoint := fmt.Sprintf("%s%s?%s", m.tmdbBaseURL, path, params.Encode())

	resp, err := m.httpClient.Get(endpoint)
	if err != nil {
		return fmt.Errorf("failed to fetch TMDB data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbPosterBaseURL + path
}
