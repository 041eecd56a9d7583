package main

import (
	"context"

	"github.com/amaumene/gostremiord/internal/cache"
	"github.com/amaumene/gostremiord/internal/config"
	"github.com/amaumene/gostremiord/internal/database"
	"github.com/amaumene/gostremiord/internal/services"
	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/amaumene/gostremiord/pkg/realdebrid"
)

// App wires the database, the Real-Debrid client and the service container.
type App struct {
	Services *services.Container
	cfg      *config.Config
	db       database.Database
	log      logger.Logger
}

func newApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := database.NewBolt(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	log.Infof("[App] database opened at %s", cfg.DatabasePath)

	rdClient := realdebrid.NewClient(cfg.RDToken)
	metaCache := cache.New(cfg.CacheSize, cfg.CacheTTL)

	syncService := services.NewSyncService(rdClient, log)
	store := services.NewMetadataStore(db, log)
	hidden := services.NewHiddenSet(db, log)

	container := &services.Container{
		RealDebrid: rdClient,
		Sync:       syncService,
		Metadata:   services.NewMetadataService(cfg.TMDBAPIKey, metaCache, log),
		Store:      store,
		Hidden:     hidden,
		Cache:      metaCache,
		DB:         db,
		Logger:     log,
	}
	container.Groups = services.NewGroupService(syncService, store, hidden, log)

	if cfg.TMDBAPIKey == "" {
		log.Warnf("[App] TMDB_API_KEY not set, metadata resolution limited to Cinemeta")
	}

	return &App{Services: container, cfg: cfg, db: db, log: log}, nil
}

// Start launches the background work: the periodic account sync and the
// cache sweeper. Both stop when ctx is done.
func (a *App) Start(ctx context.Context) {
	a.Services.Sync.StartScheduler(a.cfg.SyncInterval)
	a.Services.Cache.StartCleanup(ctx)

	go func() {
		<-ctx.Done()
		a.Services.Sync.Stop()
	}()
}

func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorf("[App] failed to close database: %v", err)
	}
}
