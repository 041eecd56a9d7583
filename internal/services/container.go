// Package services provides dependency injection container for application services.
package services

import (
	"github.com/amaumene/gostremiord/internal/cache"
	"github.com/amaumene/gostremiord/internal/database"
	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

// Container holds all application services for dependency injection.
type Container struct {
	RealDebrid *realdebrid.Client
	Sync       *SyncService
	Metadata   *MetadataService
	Groups     *GroupService
	Store      *MetadataStore
	Hidden     *HiddenSet
	Cache      *cache.LRUCache
	DB         database.Database
	Logger     logger.Logger
}
