package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handlePlayTorrent unrestricts the hoster link behind one torrent file and
// redirects the player to the direct URL. The link list is index-aligned
// with the selected files, so the file index picks the link.
func (h *Handler) handlePlayTorrent(c *gin.Context) {
	torrentID := c.Param("tid")
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 {
		c.String(http.StatusBadRequest, "invalid file index")
		return
	}

	for _, t := range h.services.Sync.TorrentCache() {
		if t.ID != torrentID {
			continue
		}
		if idx >= len(t.Links) {
			c.String(http.StatusNotFound, "file index out of range")
			return
		}

		unrestricted, err := h.services.RealDebrid.UnrestrictLink(t.Links[idx])
		if err != nil {
			h.services.Logger.Errorf("[Play] failed to unrestrict link for torrent %s: %v", torrentID, err)
			c.String(http.StatusBadGateway, "failed to resolve link")
			return
		}
		c.Redirect(http.StatusFound, unrestricted.Download)
		return
	}

	c.String(http.StatusNotFound, "unknown torrent")
}
