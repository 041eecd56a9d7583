package handlers

import (
	"net/http"

	"github.com/amaumene/gostremiord/internal/models"
	"github.com/gin-gonic/gin"
)

// handleMeta resolves full metadata for one catalog entry. Series metas
// carry the flattened episode list as videos so players can enumerate
// episodes and request per-episode streams. A failed lookup returns an
// empty meta object rather than an error so clients degrade gracefully.
func (h *Handler) handleMeta(c *gin.Context) {
	mediaType := c.Param("type")
	id := c.Param("id")

	entry := h.services.Metadata.Resolve(id, mediaType)
	if entry == nil {
		c.JSON(http.StatusOK, models.MetaResponse{})
		return
	}

	meta := &models.Meta{
		ID:     entry.ID,
		Type:   mediaType,
		Name:   entry.Name,
		Poster: entry.Poster,
	}
	for _, ep := range entry.Episodes {
		meta.Videos = append(meta.Videos, models.Video{
			ID:      ep.Key(entry.ID),
			Title:   ep.Title,
			Season:  ep.Season,
			Episode: ep.Episode,
		})
	}

	c.JSON(http.StatusOK, models.MetaResponse{Meta: meta})
}
