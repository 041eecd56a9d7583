package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/internal/models"
)

// handleManager serves the library dashboard: every group with its poster,
// members, size and curation actions. ?hidden=1 switches to the view that
// includes hidden groups.
func (h *Handler) handleManager(c *gin.Context) {
	showHidden := c.Query("hidden") == "1"
	groups := h.services.Groups.BuildGroups(showHidden)

	data := managerData{
		Groups:     groups,
		Stats:      h.services.Groups.Stats(groups),
		ShowHidden: showHidden,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := managerTemplate.Execute(c.Writer, data); err != nil {
		h.services.Logger.Errorf("[Manager] failed to render dashboard: %v", err)
	}
}

type managerData struct {
	Groups     []*models.Group
	Stats      models.GroupStats
	ShowHidden bool
}

// handleUpdateGroup assigns a canonical id to every member of a group. The
// id is resolved to full metadata first; when resolution fails the bare id
// is stored so the assignment is not lost.
func (h *Handler) handleUpdateGroup(c *gin.Context) {
	key := c.PostForm("key")
	id := strings.TrimSpace(c.PostForm("id"))
	mediaType := c.PostForm("type")

	if key == "" || id == "" {
		c.Redirect(http.StatusFound, "/manager")
		return
	}

	entry := h.services.Metadata.Resolve(id, mediaType)
	if entry == nil {
		h.services.Logger.Warnf("[Manager] could not resolve %s, storing bare assignment", id)
		entry = &models.MetadataEntry{ID: id, Type: mediaType}
	}

	for _, group := range h.services.Groups.BuildGroups(true) {
		if group.Key != key {
			continue
		}
		for _, member := range group.Members {
			h.services.Store.Set(member.ID, entry)
		}
		break
	}

	c.Redirect(http.StatusFound, "/manager")
}

func (h *Handler) handleToggleHide(c *gin.Context) {
	if key := c.PostForm("key"); key != "" {
		hidden := h.services.Hidden.Toggle(key)
		h.services.Logger.Infof("[Manager] group %s hidden=%v", key, hidden)
	}
	c.Redirect(http.StatusFound, "/manager")
}

func (h *Handler) handleRefresh(c *gin.Context) {
	go h.services.Sync.Sync()
	c.Redirect(http.StatusFound, "/manager")
}

// handleDeleteRD removes every member of a group from the account. Failures
// are logged and the redirect proceeds; the follow-up sync reconciles
// whatever state the account ended up in.
func (h *Handler) handleDeleteRD(c *gin.Context) {
	key := c.PostForm("key")

	for _, group := range h.services.Groups.BuildGroups(true) {
		if group.Key != key {
			continue
		}
		for _, member := range group.Members {
			var err error
			if group.IsTorrent {
				err = h.services.RealDebrid.DeleteTorrent(member.ID)
			} else {
				err = h.services.RealDebrid.DeleteDownload(member.ID)
			}
			if err != nil {
				h.services.Logger.Warnf("[Manager] failed to delete %s: %v", member.ID, err)
			}
		}
		break
	}

	h.services.Sync.SyncAfter(constants.PostActionSyncDelay)
	c.Redirect(http.StatusFound, "/manager")
}

// handleAddMagnet adds a magnet to the account, selects all files, and
// optionally pre-assigns metadata so the new torrent lands identified.
func (h *Handler) handleAddMagnet(c *gin.Context) {
	magnet := strings.TrimSpace(c.PostForm("magnet"))
	if magnet == "" {
		c.Redirect(http.StatusFound, "/manager")
		return
	}

	added, err := h.services.RealDebrid.AddMagnet(magnet)
	if err != nil {
		h.services.Logger.Warnf("[Manager] failed to add magnet: %v", err)
		c.Redirect(http.StatusFound, "/manager")
		return
	}
	if err := h.services.RealDebrid.SelectFiles(added.ID, "all"); err != nil {
		h.services.Logger.Warnf("[Manager] failed to select files for %s: %v", added.ID, err)
	}

	h.preassign(added.ID, c.PostForm("id"), c.PostForm("type"))
	h.services.Sync.SyncAfter(constants.PostActionSyncDelay)
	c.Redirect(http.StatusFound, "/manager")
}

// handleAddLinks unrestricts each pasted hoster link, one per line.
func (h *Handler) handleAddLinks(c *gin.Context) {
	for _, line := range strings.Split(c.PostForm("links"), "\n") {
		link := strings.TrimSpace(line)
		if link == "" {
			continue
		}

		unrestricted, err := h.services.RealDebrid.UnrestrictLink(link)
		if err != nil {
			h.services.Logger.Warnf("[Manager] failed to unrestrict %s: %v", link, err)
			continue
		}
		h.preassign(unrestricted.ID, c.PostForm("id"), c.PostForm("type"))
	}

	h.services.Sync.SyncAfter(constants.PostActionSyncDelay)
	c.Redirect(http.StatusFound, "/manager")
}

func (h *Handler) preassign(recordID, id, mediaType string) {
	id = strings.TrimSpace(id)
	if recordID == "" || id == "" {
		return
	}
	entry := h.services.Metadata.Resolve(id, mediaType)
	if entry == nil {
		entry = &models.MetadataEntry{ID: id, Type: mediaType}
	}
	h.services.Store.Set(recordID, entry)
}

var managerTemplate = template.Must(template.New("manager").Funcs(template.FuncMap{
	"formatSize": formatBytes,
	"searchLink": func(name string) string {
		return "https://www.imdb.com/find/?q=" + url.QueryEscape(name)
	},
}).Parse(managerHTML))

const managerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>GoStremioRD Manager</title>
  <style>
    :root {
      --primary-color: #4a90e2;
      --background-color: #f7f9fc;
      --text-color: #333;
    }
    * { box-sizing: border-box; }
    body {
      font-family: 'Roboto', sans-serif;
      background-color: var(--background-color);
      color: var(--text-color);
      margin: 0;
      padding: 20px;
    }
    h1 { color: var(--primary-color); }
    .stats { margin-bottom: 20px; color: #666; }
    .toolbar { margin-bottom: 20px; display: flex; gap: 20px; flex-wrap: wrap; }
    .toolbar form { display: flex; gap: 8px; }
    .grid {
      display: grid;
      grid-template-columns: repeat(auto-fill, minmax(280px, 1fr));
      gap: 16px;
    }
    .card {
      background: #fff;
      border-radius: 8px;
      padding: 16px;
      box-shadow: 0 2px 6px rgba(0,0,0,0.08);
    }
    .card.hidden-group { opacity: 0.5; }
    .card img { width: 80px; float: right; border-radius: 4px; }
    .card h3 { margin: 0 0 8px; }
    .meta { color: #666; font-size: 0.85rem; margin-bottom: 8px; }
    .unidentified { border-left: 4px solid #e2a04a; }
    .actions form { display: inline-block; margin: 2px 2px 0 0; }
    input, select, button { padding: 6px; border: 1px solid #ccc; border-radius: 4px; }
    button { background: var(--primary-color); color: #fff; border: none; cursor: pointer; }
    button.danger { background: #e25555; }
  </style>
</head>
<body>
  <h1>GoStremioRD Manager</h1>
  <div class="stats">{{len .Groups}} groups, {{.Stats.TotalFiles}} files, {{formatSize .Stats.TotalSize}}</div>

  <div class="toolbar">
    <form method="post" action="/manager/refresh"><button>Refresh</button></form>
    {{if .ShowHidden}}
    <form method="get" action="/manager"><button>Hide hidden</button></form>
    {{else}}
    <form method="get" action="/manager"><input type="hidden" name="hidden" value="1"><button>Show hidden</button></form>
    {{end}}
    <form method="post" action="/manager/add-magnet">
      <input name="magnet" placeholder="magnet:?xt=...">
      <input name="id" placeholder="tt... (optional)">
      <select name="type"><option value="movie">movie</option><option value="series">series</option></select>
      <button>Add magnet</button>
    </form>
    <form method="post" action="/manager/add-links">
      <input name="links" placeholder="hoster links, one per line">
      <input name="id" placeholder="tt... (optional)">
      <select name="type"><option value="movie">movie</option><option value="series">series</option></select>
      <button>Add links</button>
    </form>
  </div>

  <div class="grid">
    {{range .Groups}}
    <div class="card{{if not .Identified}} unidentified{{end}}{{if .Hidden}} hidden-group{{end}}">
      {{if .Poster}}<img src="{{.Poster}}" alt="">{{end}}
      <h3>{{if .DetectedName}}{{.DetectedName}}{{else}}{{.DisplayName}}{{end}}</h3>
      <div class="meta">
        {{len .Members}} file(s), {{formatSize .Size}}, {{.Type}}{{if .IsTorrent}} (torrent){{end}}
        {{if .Status}}<br>{{.Status}} {{.Progress}}%{{end}}
        {{if .Identified}}<br>{{.AssignedID}}{{else}}<br><a href="{{searchLink .DisplayName}}" target="_blank">search IMDb</a>{{end}}
      </div>
      <div class="actions">
        <form method="post" action="/manager/update-group">
          <input type="hidden" name="key" value="{{.Key}}">
          <input name="id" placeholder="tt..." value="{{.AssignedID}}">
          <select name="type">
            <option value="movie"{{if eq .Type "movie"}} selected{{end}}>movie</option>
            <option value="series"{{if eq .Type "series"}} selected{{end}}>series</option>
          </select>
          <button>Assign</button>
        </form>
        <form method="post" action="/manager/toggle-hide">
          <input type="hidden" name="key" value="{{.Key}}">
          <button>{{if .Hidden}}Unhide{{else}}Hide{{end}}</button>
        </form>
        <form method="post" action="/manager/delete-rd" onsubmit="return confirm('Delete from Real-Debrid?')">
          <input type="hidden" name="key" value="{{.Key}}">
          <button class="danger">Delete</button>
        </form>
      </div>
    </div>
    {{end}}
  </div>
</body>
</html>`
