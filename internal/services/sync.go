package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

// DebridClient is the slice of the Real-Debrid API the sync engine needs.
type DebridClient interface {
	Downloads(page, limit int) ([]realdebrid.Download, error)
	Torrents(page, limit int) ([]realdebrid.Torrent, error)
	TorrentInfo(id string) (*realdebrid.Torrent, error)
}

// SyncService mirrors the account's downloads and torrents into two
// in-memory caches. A full refresh replaces each cache wholesale; readers
// always observe either the previous complete list or the new one, never a
// half-built state. A sync requested while one is running is dropped, not
// queued.
type SyncService struct {
	client DebridClient
	logger logger.Logger

	busy atomic.Bool

	mu        sync.RWMutex
	downloads []realdebrid.Download
	torrents  []realdebrid.Torrent

	pageSize    int
	pageDelay   time.Duration
	detailDelay time.Duration

	cron *cron.Cron
}

// NewSyncService creates a sync engine over client.
func NewSyncService(client DebridClient, log logger.Logger) *SyncService {
	return &SyncService{
		client:      client,
		logger:      log,
		pageSize:    constants.DebridPageSize,
		pageDelay:   constants.SyncPageDelay,
		detailDelay: constants.SyncDetailDelay,
	}
}

// FileCache returns the current downloads snapshot. The returned slice is
// replaced, never mutated, so callers may iterate without copying.
func (s *SyncService) FileCache() []realdebrid.Download {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.downloads
}

// TorrentCache returns the current torrents snapshot.
func (s *SyncService) TorrentCache() []realdebrid.Torrent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.torrents
}

// Sync performs one full refresh of both caches. Safe to call concurrently:
// overlapping calls return immediately without fetching. Errors are logged,
// never returned; a failed page loop leaves the affected cache at its
// previous value unless some pages were already fetched.
func (s *SyncService) Sync() {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debugf("[Sync] refresh already in progress, dropping request")
		return
	}
	defer s.busy.Store(false)

	s.logger.Infof("[Sync] refreshing account state")
	s.syncDownloads()
	s.syncTorrents()
}

func (s *SyncService) syncDownloads() {
	items, ok := s.fetchAllDownloads()
	if !ok {
		return
	}

	s.mu.Lock()
	s.downloads = items
	s.mu.Unlock()
	s.logger.Infof("[Sync] downloads cache updated: %d items", len(items))
}

// fetchAllDownloads pages through the downloads list until a short or empty
// page. Returns ok=false when not even the first page could be fetched, so
// the previous cache survives transient failures.
func (s *SyncService) fetchAllDownloads() ([]realdebrid.Download, bool) {
	var all []realdebrid.Download
	for page := 1; ; page++ {
		items, err := s.client.Downloads(page, s.pageSize)
		if err != nil {
			s.logger.Warnf("[Sync] downloads page %d failed: %v", page, err)
			return all, len(all) > 0
		}
		all = append(all, items...)
		if len(items) < s.pageSize {
			return all, true
		}
		time.Sleep(s.pageDelay)
	}
}

func (s *SyncService) syncTorrents() {
	items, ok := s.fetchAllTorrents()
	if !ok {
		return
	}

	detailed := make([]realdebrid.Torrent, 0, len(items))
	for _, t := range items {
		if t.Status != constants.TorrentStatusDownloaded {
			detailed = append(detailed, t)
			continue
		}

		time.Sleep(s.detailDelay)
		info, err := s.client.TorrentInfo(t.ID)
		if err != nil {
			s.logger.Warnf("[Sync] torrent info for %s failed: %v", t.ID, err)
			detailed = append(detailed, t)
			continue
		}

		t.Files = selectedFiles(info.Files)
		t.Links = info.Links
		detailed = append(detailed, t)
	}

	s.mu.Lock()
	s.torrents = detailed
	s.mu.Unlock()
	s.logger.Infof("[Sync] torrents cache updated: %d items", len(detailed))
}

func (s *SyncService) fetchAllTorrents() ([]realdebrid.Torrent, bool) {
	var all []realdebrid.Torrent
	for page := 1; ; page++ {
		items, err := s.client.Torrents(page, s.pageSize)
		if err != nil {
			s.logger.Warnf("[Sync] torrents page %d failed: %v", page, err)
			return all, len(all) > 0
		}
		all = append(all, items...)
		if len(items) < s.pageSize {
			return all, true
		}
		time.Sleep(s.pageDelay)
	}
}

// selectedFiles keeps only the files the user selected for download; their
// order matches the hoster link list.
func selectedFiles(files []realdebrid.TorrentFile) []realdebrid.TorrentFile {
	selected := make([]realdebrid.TorrentFile, 0, len(files))
	for _, f := range files {
		if f.Selected == 1 {
			selected = append(selected, f)
		}
	}
	return selected
}

// StartScheduler runs one immediate sync and then refreshes on a fixed
// interval until Stop is called.
func (s *SyncService) StartScheduler(interval time.Duration) {
	go s.Sync()

	s.cron = cron.New()
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.Sync))
	s.cron.Start()
	s.logger.Infof("[Sync] scheduler started, interval %v", interval)
}

// Stop halts the periodic refresh. An in-flight sync finishes on its own.
func (s *SyncService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SyncAfter schedules a one-shot refresh, used after dashboard actions that
// change the account so the remote service has time to register the change.
func (s *SyncService) SyncAfter(delay time.Duration) {
	time.AfterFunc(delay, s.Sync)
}
