package services

import (
	"sort"
	"strings"

	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/internal/models"
	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/medianame"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

// torrentKeyPrefix separates torrent groups from download groups so the two
// record kinds never fold into one group even when their filenames collide.
const torrentKeyPrefix = "t:"

// GroupService derives the grouped library view from the raw sync caches.
// Groups are recomputed on every call and never cached: they are cheap to
// build and always reflect the latest caches and assignments.
type GroupService struct {
	sync   *SyncService
	store  *MetadataStore
	hidden *HiddenSet
	logger logger.Logger
}

func NewGroupService(sync *SyncService, store *MetadataStore, hidden *HiddenSet, log logger.Logger) *GroupService {
	return &GroupService{
		sync:   sync,
		store:  store,
		hidden: hidden,
		logger: log,
	}
}

// BuildGroups clusters the cached downloads and torrents by normalized
// filename key for the dashboard. Non-streamable downloads and unfinished
// torrents stay visible so the user can manage them. Hidden groups are
// dropped unless showHidden is set.
func (g *GroupService) BuildGroups(showHidden bool) []*models.Group {
	return g.build(DashboardHostersOnly(g.sync.FileCache()), g.sync.TorrentCache(), showHidden)
}

// CatalogGroups is the strict variant behind the Stremio catalogs. Only
// streamable hoster downloads and fully downloaded torrents contribute, so
// every listed group can produce at least one stream. Hidden groups never
// appear.
func (g *GroupService) CatalogGroups() []*models.Group {
	cached := g.sync.TorrentCache()
	torrents := make([]realdebrid.Torrent, 0, len(cached))
	for _, t := range cached {
		if t.Status == constants.TorrentStatusDownloaded {
			torrents = append(torrents, t)
		}
	}
	return g.build(HostersOnly(g.sync.FileCache()), torrents, false)
}

func (g *GroupService) build(downloads []realdebrid.Download, torrents []realdebrid.Torrent, showHidden bool) []*models.Group {
	byKey := make(map[string]*models.Group)
	assignments := g.store.Snapshot()

	for _, d := range downloads {
		key := medianame.NormalizeKey(d.Filename)
		group := g.ensureGroup(byKey, key, d.Filename, false)
		group.Members = append(group.Members, models.GroupMember{
			ID:       d.ID,
			Filename: d.Filename,
			Size:     d.Filesize,
			URL:      d.Download,
		})
		group.Size += d.Filesize
		if d.Streamable == 1 {
			group.Streamable = 1
		}
		g.overlay(group, assignments[d.ID])
	}

	for _, t := range torrents {
		key := torrentKeyPrefix + medianame.NormalizeKey(t.Filename)
		group := g.ensureGroup(byKey, key, t.Filename, true)
		group.Members = append(group.Members, models.GroupMember{
			ID:       t.ID,
			Filename: t.Filename,
			Size:     t.Bytes,
		})
		group.Size += t.Bytes
		group.Status = t.Status
		group.Progress = t.Progress
		g.overlay(group, assignments[t.ID])
	}

	groups := make([]*models.Group, 0, len(byKey))
	for _, group := range byKey {
		group.Hidden = g.hidden.Contains(group.Key)
		if group.Hidden && !showHidden {
			continue
		}
		groups = append(groups, group)
	}

	sortGroups(groups)
	return groups
}

// Stats aggregates member and byte totals over a grouped view.
func (g *GroupService) Stats(groups []*models.Group) models.GroupStats {
	var stats models.GroupStats
	for _, group := range groups {
		stats.TotalFiles += len(group.Members)
		stats.TotalSize += group.Size
	}
	return stats
}

func (g *GroupService) ensureGroup(byKey map[string]*models.Group, key, filename string, isTorrent bool) *models.Group {
	if group, ok := byKey[key]; ok {
		if medianame.DetectType(filename) == "series" {
			group.Type = "series"
		}
		return group
	}

	group := &models.Group{
		Key:         key,
		DisplayName: medianame.DisplayTitle(filename),
		Type:        medianame.DetectType(filename),
		IsTorrent:   isTorrent,
	}
	byKey[key] = group
	return group
}

// overlay applies a member's metadata assignment to its group. When several
// members carry assignments the last one processed wins.
func (g *GroupService) overlay(group *models.Group, entry *models.MetadataEntry) {
	if entry == nil {
		return
	}
	group.AssignedID = entry.ID
	group.DetectedName = entry.Name
	group.Poster = entry.Poster
	if entry.Type != "" {
		group.Type = entry.Type
	}
	if entry.Name != "" {
		group.DisplayName = entry.Name
	}
}

// sortGroups orders unidentified groups first so they surface for manual
// assignment, then by descending member count, then by key for stability.
func sortGroups(groups []*models.Group) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Identified() != groups[j].Identified() {
			return !groups[i].Identified()
		}
		if len(groups[i].Members) != len(groups[j].Members) {
			return len(groups[i].Members) > len(groups[j].Members)
		}
		return groups[i].Key < groups[j].Key
	})
}

// HostersOnly keeps downloads that can actually be streamed: marked
// streamable by the provider and not originating from a direct "/d/" link.
func HostersOnly(downloads []realdebrid.Download) []realdebrid.Download {
	kept := make([]realdebrid.Download, 0, len(downloads))
	for _, d := range downloads {
		if d.Streamable == 1 && !strings.Contains(d.Link, "/d/") {
			kept = append(kept, d)
		}
	}
	return kept
}

// DashboardHostersOnly is the looser dashboard variant: non-streamable
// entries stay visible so the user can manage them, only "/d/" origin links
// are dropped.
func DashboardHostersOnly(downloads []realdebrid.Download) []realdebrid.Download {
	kept := make([]realdebrid.Download, 0, len(downloads))
	for _, d := range downloads {
		if !strings.Contains(d.Link, "/d/") {
			kept = append(kept, d)
		}
	}
	return kept
}
