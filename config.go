package folio

import "time"

// SiteConfig holds all configuration for a folio deployment.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the RSS feed
	Author      string // Author name for the RSS feed

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/folio.db")
	StorageDir   string // Object bucket root (default "data/storage")

	AdminPasswordHash string // Required: bcrypt hash of the admin password
	SessionSecret     string // Required: session encryption secret
	CookieSecure      bool   // Set true for HTTPS

	CacheTTL time.Duration // Published-content cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.StorageDir == "" {
		c.StorageDir = "data/storage"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes, before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
