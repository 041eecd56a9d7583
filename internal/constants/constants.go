// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "gostremiord.stremio.addon"
	AddonVersion     = "1.0.0"
	AddonName        = "GoStremioRD"
	AddonDescription = "Real-Debrid library addon with grouping, TMDB/Cinemeta metadata and a management dashboard"

	// Default configuration values
	DefaultPort = "5000"

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// Rate limiting
	TMDBRateLimit = 20 // request burst capacity
	TMDBRateBurst = 5  // refill per second

	// Real-Debrid pagination
	DebridPageSize = 100

	// Catalog output cap per Stremio request
	CatalogMaxMetas = 100
)

// TorrentStatusDownloaded is the Real-Debrid torrent status that marks a
// torrent whose file links are ready to unrestrict.
const TorrentStatusDownloaded = "downloaded"
