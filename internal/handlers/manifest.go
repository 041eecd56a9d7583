package handlers

import (
	"net/http"

	"github.com/amaumene/gostremiord/internal/constants"
	"github.com/amaumene/gostremiord/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, h.createManifest())
}

func (h *Handler) createManifest() models.Manifest {
	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{"movie", "series"},
		Resources:   []string{"catalog", "meta", "stream"},
		Catalogs:   createCatalogs(),
		IDPrefixes: []string{"tt", "tmdb:"},
	}
}

// createCatalogs lists the library catalogs plus the TMDB browse rows, one
// per media type. Every catalog supports skip-based paging.
func createCatalogs() []models.Catalog {
	defs := []struct {
		id   string
		name string
	}{
		{"rd_movies", "RD Movies"},
		{"rd_series", "RD Series"},
		{"trending", "Trending"},
		{"top_rated", "Top Rated"},
		{"netflix", "Netflix"},
		{"hbo", "HBO Max"},
		{"disney", "Disney+"},
		{"amazon", "Prime Video"},
		{"apple", "Apple TV+"},
	}

	var catalogs []models.Catalog
	for _, d := range defs {
		types := []string{"movie", "series"}
		switch d.id {
		case "rd_movies":
			types = []string{"movie"}
		case "rd_series":
			types = []string{"series"}
		}
		for _, t := range types {
			catalogs = append(catalogs, models.Catalog{
				Type:           t,
				ID:             d.id,
				Name:           d.name,
				ExtraSupported: []string{"skip"},
			})
		}
	}
	return catalogs
}
