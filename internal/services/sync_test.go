package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

type fakeDebridClient struct {
	mu            sync.Mutex
	downloadPages [][]realdebrid.Download
	torrentPages  [][]realdebrid.Torrent
	infos         map[string]*realdebrid.Torrent
	downloadsErr  error
	delay         time.Duration
	downloadCalls int32
	infoCalls     int32
}

func (f *fakeDebridClient) Downloads(page, limit int) ([]realdebrid.Download, error) {
	atomic.AddInt32(&f.downloadCalls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadsErr != nil {
		return nil, f.downloadsErr
	}
	if page > len(f.downloadPages) {
		return nil, nil
	}
	return f.downloadPages[page-1], nil
}

func (f *fakeDebridClient) Torrents(page, limit int) ([]realdebrid.Torrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page > len(f.torrentPages) {
		return nil, nil
	}
	return f.torrentPages[page-1], nil
}

func (f *fakeDebridClient) TorrentInfo(id string) (*realdebrid.Torrent, error) {
	atomic.AddInt32(&f.infoCalls, 1)
	info, ok := f.infos[id]
	if !ok {
		return nil, errors.New("unknown torrent")
	}
	return info, nil
}

func newTestSync(client DebridClient) *SyncService {
	s := NewSyncService(client, logger.New())
	s.pageSize = 2
	s.pageDelay = 0
	s.detailDelay = 0
	return s
}

func TestSyncPopulatesCaches(t *testing.T) {
	client := &fakeDebridClient{
		downloadPages: [][]realdebrid.Download{
			{{ID: "d1", Filename: "a.mkv"}, {ID: "d2", Filename: "b.mkv"}},
			{{ID: "d3", Filename: "c.mkv"}},
		},
		torrentPages: [][]realdebrid.Torrent{
			{
				{ID: "t1", Filename: "Show.S01.1080p", Status: "downloaded"},
				{ID: "t2", Filename: "Other.S02", Status: "downloading", Progress: 40},
			},
		},
		infos: map[string]*realdebrid.Torrent{
			"t1": {
				ID: "t1",
				Files: []realdebrid.TorrentFile{
					{ID: 1, Path: "/Show.S01E01.mkv", Selected: 1},
					{ID: 2, Path: "/sample.mkv", Selected: 0},
					{ID: 3, Path: "/Show.S01E02.mkv", Selected: 1},
				},
				Links: []string{"https://host/1", "https://host/3"},
			},
		},
	}

	s := newTestSync(client)
	s.Sync()

	if got := len(s.FileCache()); got != 3 {
		t.Errorf("FileCache has %d items, expected 3", got)
	}

	torrents := s.TorrentCache()
	if len(torrents) != 2 {
		t.Fatalf("TorrentCache has %d items, expected 2", len(torrents))
	}

	downloaded := torrents[0]
	if downloaded.ID != "t1" {
		t.Fatalf("torrent order changed, got %s first", downloaded.ID)
	}
	if len(downloaded.Files) != 2 {
		t.Errorf("downloaded torrent kept %d files, expected 2 selected", len(downloaded.Files))
	}
	for _, f := range downloaded.Files {
		if f.Selected != 1 {
			t.Errorf("unselected file %s kept in torrent", f.Path)
		}
	}
	if len(downloaded.Links) != 2 {
		t.Errorf("downloaded torrent has %d links, expected 2", len(downloaded.Links))
	}

	if atomic.LoadInt32(&client.infoCalls) != 1 {
		t.Errorf("detail fetch called %d times, expected 1 (downloaded torrents only)", client.infoCalls)
	}
	if torrents[1].Progress != 40 {
		t.Errorf("non-terminal torrent lost its progress: %v", torrents[1].Progress)
	}
}

func TestSyncDropsConcurrentCalls(t *testing.T) {
	client := &fakeDebridClient{
		downloadPages: [][]realdebrid.Download{{{ID: "d1"}}},
		delay:         100 * time.Millisecond,
	}
	s := newTestSync(client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Sync()
	}()

	time.Sleep(30 * time.Millisecond)
	s.Sync() // dropped, first refresh still in flight
	wg.Wait()

	if calls := atomic.LoadInt32(&client.downloadCalls); calls != 1 {
		t.Errorf("downloads fetched %d times, expected 1 completed cycle", calls)
	}
	if got := len(s.FileCache()); got != 1 {
		t.Errorf("FileCache has %d items, expected 1", got)
	}
}

func TestSyncKeepsPreviousCacheOnFailure(t *testing.T) {
	client := &fakeDebridClient{
		downloadPages: [][]realdebrid.Download{{{ID: "d1"}}},
	}
	s := newTestSync(client)
	s.Sync()

	if got := len(s.FileCache()); got != 1 {
		t.Fatalf("FileCache has %d items after first sync, expected 1", got)
	}

	client.mu.Lock()
	client.downloadsErr = errors.New("service unavailable")
	client.mu.Unlock()
	s.Sync()

	if got := len(s.FileCache()); got != 1 {
		t.Errorf("FileCache has %d items after failed sync, expected previous value kept", got)
	}
}
