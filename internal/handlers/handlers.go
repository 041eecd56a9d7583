// Package handlers implements the Stremio addon endpoints and the manager
// dashboard on top of the service container.
package handlers

import (
	"strings"

	"github.com/amaumene/gostremiord/internal/config"
	"github.com/amaumene/gostremiord/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the addon and the dashboard.
type Handler struct {
	services *services.Container
	config   *config.Config
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	// Stremio addon routes
	r.GET("/manifest.json", h.handleManifest)
	r.GET("/catalog/:type/:id", h.handleCatalogWrapper)
	r.GET("/catalog/:type/:id/:extra", h.handleCatalogExtraWrapper)
	r.GET("/meta/:type/:id", h.handleMetaWrapper)
	r.GET("/stream/:type/:id", h.handleStreamWrapper)

	// Playback resolution for torrent files
	r.GET("/play/t/:tid/:idx", h.handlePlayTorrent)

	// Manager dashboard
	r.GET("/manager", h.handleManager)
	r.POST("/manager/update-group", h.handleUpdateGroup)
	r.POST("/manager/toggle-hide", h.handleToggleHide)
	r.POST("/manager/refresh", h.handleRefresh)
	r.POST("/manager/delete-rd", h.handleDeleteRD)
	r.POST("/manager/add-magnet", h.handleAddMagnet)
	r.POST("/manager/add-links", h.handleAddLinks)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.Redirect(302, "/manager")
}

// Wrapper functions to handle the .json extension Stremio appends
func (h *Handler) handleCatalogWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleCatalog(c)
}

func (h *Handler) handleCatalogExtraWrapper(c *gin.Context) {
	stripJSONExtension(c, "extra")
	h.handleCatalog(c)
}

func (h *Handler) handleMetaWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleMeta(c)
}

func (h *Handler) handleStreamWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleStream(c)
}

func stripJSONExtension(c *gin.Context, param string) {
	value := c.Param(param)
	if strings.HasSuffix(value, ".json") {
		for i, p := range c.Params {
			if p.Key == param {
				c.Params[i].Value = strings.TrimSuffix(value, ".json")
			}
		}
	}
}

// baseURL reconstructs the externally visible origin of the request, used to
// build absolute playback URLs in stream replies.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
