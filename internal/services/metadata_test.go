package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/gostremiord/internal/cache"
	"github.com/amaumene/gostremiord/pkg/logger"
)

func newTestMetadata(apiKey, tmdbURL, cinemetaURL string) *MetadataService {
	m := NewMetadataService(apiKey, cache.New(100, time.Hour), logger.New())
	m.SetBaseURLs(tmdbURL, cinemetaURL)
	return m
}

func TestResolveIMDBMovieViaTMDB(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/find/tt1375666", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("external_source") != "imdb_id" {
			t.Errorf("find called without external_source=imdb_id")
		}
		fmt.Fprint(w, `{"movie_results":[{"id":27205,"title":"Inception","poster_path":"/inception.jpg"}],"tv_results":[]}`)
	})
	tmdb := httptest.NewServer(mux)
	defer tmdb.Close()

	m := newTestMetadata("key", tmdb.URL, "http://127.0.0.1:0")
	entry := m.Resolve("tt1375666", "movie")
	if entry == nil {
		t.Fatal("Resolve(tt1375666) = nil, expected entry")
	}
	if entry.ID != "tt1375666" {
		t.Errorf("entry.ID = %q, expected tt1375666", entry.ID)
	}
	if entry.Name != "Inception" {
		t.Errorf("entry.Name = %q, expected Inception", entry.Name)
	}
	if entry.Type != "movie" {
		t.Errorf("entry.Type = %q, expected movie", entry.Type)
	}
	if entry.TMDBID != 27205 {
		t.Errorf("entry.TMDBID = %d, expected 27205", entry.TMDBID)
	}
}

func TestResolveIMDBSeriesFlattensEpisodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/find/tt0903747", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"movie_results":[],"tv_results":[{"id":1396,"name":"Breaking Bad","poster_path":"/bb.jpg"}]}`)
	})
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1396,"name":"Breaking Bad","seasons":[{"season_number":0,"episode_count":1},{"season_number":2,"episode_count":1},{"season_number":1,"episode_count":2}]}`)
	})
	mux.HandleFunc("/tv/1396/season/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"season_number":1,"episodes":[{"episode_number":2,"season_number":1,"name":"Cat's in the Bag..."},{"episode_number":1,"season_number":1,"name":"Pilot"}]}`)
	})
	mux.HandleFunc("/tv/1396/season/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"season_number":2,"episodes":[{"episode_number":1,"season_number":2,"name":"Seven Thirty-Seven"}]}`)
	})
	tmdb := httptest.NewServer(mux)
	defer tmdb.Close()

	m := newTestMetadata("key", tmdb.URL, "http://127.0.0.1:0")
	entry := m.Resolve("tt0903747", "series")
	if entry == nil {
		t.Fatal("Resolve(tt0903747) = nil, expected entry")
	}
	if entry.Type != "series" {
		t.Errorf("entry.Type = %q, expected series", entry.Type)
	}
	if len(entry.Episodes) != 3 {
		t.Fatalf("flattened %d episodes, expected 3 (specials skipped)", len(entry.Episodes))
	}
	for i, want := range []struct{ s, e int }{{1, 1}, {1, 2}, {2, 1}} {
		if entry.Episodes[i].Season != want.s || entry.Episodes[i].Episode != want.e {
			t.Errorf("episode %d = S%dE%d, expected S%dE%d",
				i, entry.Episodes[i].Season, entry.Episodes[i].Episode, want.s, want.e)
		}
	}
	if got := entry.Episodes[0].Key(entry.ID); got != "tt0903747:1:1" {
		t.Errorf("episode key = %q, expected tt0903747:1:1", got)
	}
}

func TestResolveFallsBackToCinemeta(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/meta/series/tt123.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/meta/movie/tt123.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"meta":{"id":"tt123","imdb_id":"tt123","name":"Some Film","poster":"p.jpg","type":"movie"}}`)
	})
	cinemeta := httptest.NewServer(mux)
	defer cinemeta.Close()

	// no TMDB key configured, so the chain goes straight to Cinemeta
	m := newTestMetadata("", "http://127.0.0.1:0", cinemeta.URL)
	entry := m.Resolve("tt123", "movie")
	if entry == nil {
		t.Fatal("Resolve(tt123) = nil, expected Cinemeta fallback entry")
	}
	if entry.Name != "Some Film" {
		t.Errorf("entry.Name = %q, expected Some Film", entry.Name)
	}
	if entry.Type != "movie" {
		t.Errorf("entry.Type = %q, expected movie", entry.Type)
	}
}

func TestResolveTMDBIDPrefersCrossReferencedIMDB(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("append_to_response") != "external_ids" {
			t.Errorf("details called without append_to_response=external_ids")
		}
		fmt.Fprint(w, `{"id":603,"title":"The Matrix","external_ids":{"imdb_id":"tt0133093"}}`)
	})
	tmdb := httptest.NewServer(mux)
	defer tmdb.Close()

	m := newTestMetadata("key", tmdb.URL, "http://127.0.0.1:0")
	entry := m.Resolve("tmdb:603", "movie")
	if entry == nil {
		t.Fatal("Resolve(tmdb:603) = nil, expected entry")
	}
	if entry.ID != "tt0133093" {
		t.Errorf("entry.ID = %q, expected cross-referenced tt0133093", entry.ID)
	}
}

func TestResolveCachesFailures(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := newTestMetadata("key", server.URL, server.URL)
	if entry := m.Resolve("tt0000001", "movie"); entry != nil {
		t.Fatalf("Resolve = %+v, expected nil", entry)
	}
	before := atomic.LoadInt32(&calls)

	if entry := m.Resolve("tt0000001", "movie"); entry != nil {
		t.Fatalf("second Resolve = %+v, expected cached nil", entry)
	}
	if after := atomic.LoadInt32(&calls); after != before {
		t.Errorf("failed lookup re-queried within TTL: %d calls, expected %d", after, before)
	}
}

func TestDiscoverProviderCatalog(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("/discover/tv", func(w http.ResponseWriter, r *http.Request) {
		if query == "" {
			query = r.URL.RawQuery
		}
		fmt.Fprint(w, `{"page":1,"results":[{"id":66732,"name":"Stranger Things","poster_path":"/st.jpg","first_air_date":"2016-07-15"}]}`)
	})
	tmdb := httptest.NewServer(mux)
	defer tmdb.Close()

	m := newTestMetadata("key", tmdb.URL, "http://127.0.0.1:0")
	metas := m.Discover("netflix", "series", 0)

	q, err := url.ParseQuery(query)
	if err != nil {
		t.Fatal(err)
	}
	if q.Get("with_watch_providers") != "8" {
		t.Errorf("with_watch_providers = %q, expected the Netflix provider id 8", q.Get("with_watch_providers"))
	}
	if q.Get("watch_region") == "" {
		t.Error("discover request missing watch_region")
	}
	if q.Get("sort_by") != "popularity.desc" {
		t.Errorf("sort_by = %q, expected popularity.desc", q.Get("sort_by"))
	}

	if len(metas) != 2 {
		t.Fatalf("Discover returned %d metas, expected 1 per fetched page", len(metas))
	}
	got := metas[0]
	if got.ID != "tmdb:66732" || got.Type != "series" || got.Name != "Stranger Things" {
		t.Errorf("meta = %+v, expected tmdb:66732/series/Stranger Things", got)
	}
	if got.ReleaseInfo != "2016" {
		t.Errorf("releaseInfo = %q, expected 2016", got.ReleaseInfo)
	}
}

func TestDiscoverUnknownCatalog(t *testing.T) {
	m := newTestMetadata("key", "http://127.0.0.1:0", "http://127.0.0.1:0")
	if metas := m.Discover("bogus", "movie", 0); len(metas) != 0 {
		t.Errorf("Discover(bogus) returned %d metas, expected none", len(metas))
	}
	if IsDiscoverCatalog("bogus") {
		t.Error("IsDiscoverCatalog(bogus) = true, expected false")
	}
	for _, id := range []string{"trending", "top_rated", "netflix", "apple"} {
		if !IsDiscoverCatalog(id) {
			t.Errorf("IsDiscoverCatalog(%s) = false, expected true", id)
		}
	}
}
