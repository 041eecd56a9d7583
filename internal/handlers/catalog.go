package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/internal/models"
	"github.com/amaumene/gostremiord/internal/services"
	"github.com/gin-gonic/gin"
)

var skipRegexp = regexp.MustCompile(`skip=(\d+)`)

// handleCatalog serves the rd_movies / rd_series library catalogs and the
// TMDB browse catalogs (trending, top rated, per-provider). Unknown catalog
// ids get an empty list, never an error.
func (h *Handler) handleCatalog(c *gin.Context) {
	mediaType := c.Param("type")
	catalogID := c.Param("id")

	if services.IsDiscoverCatalog(catalogID) {
		metas := h.services.Metadata.Discover(catalogID, mediaType, parseSkip(c.Param("extra")))
		if metas == nil {
			metas = []models.Meta{}
		}
		c.JSON(http.StatusOK, models.CatalogResponse{Metas: metas})
		return
	}

	if catalogID != "rd_movies" && catalogID != "rd_series" {
		c.JSON(http.StatusOK, models.CatalogResponse{Metas: []models.Meta{}})
		return
	}

	h.handleLibraryCatalog(c, mediaType)
}

// handleLibraryCatalog lists the identified groups of the account library.
// Only the strict group view feeds it: a catalog entry needs a canonical id
// the client can request meta and streams for, and at least one record that
// can actually stream. Entries are unique by canonical id even when several
// groups share one assignment.
func (h *Handler) handleLibraryCatalog(c *gin.Context, mediaType string) {
	metas := []models.Meta{}
	seen := make(map[string]bool)

	for _, group := range h.services.Groups.CatalogGroups() {
		if !group.Identified() || group.Type != mediaType {
			continue
		}
		if seen[group.AssignedID] {
			continue
		}
		seen[group.AssignedID] = true

		name := group.DetectedName
		if name == "" {
			name = group.DisplayName
		}
		metas = append(metas, models.Meta{
			ID:     group.AssignedID,
			Type:   mediaType,
			Name:   name,
			Poster: group.Poster,
		})
		if len(metas) >= constants.CatalogMaxMetas {
			break
		}
	}

	c.JSON(http.StatusOK, models.CatalogResponse{Metas: metas})
}

// parseSkip extracts the paging offset from the extra path segment, e.g.
// "skip=40". Anything unparseable means the first page.
func parseSkip(extra string) int {
	m := skipRegexp.FindStringSubmatch(extra)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
