// Package folio is the content service behind a personal portfolio and
// blog site. It owns the rows (blog posts and iOS app listings in
// SQLite) and the media objects (disk-backed buckets served over HTTP),
// and exposes the JSON API the site's frontend consumes: public reads
// plus a session-authenticated admin area for content management.
package folio

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central folio application. It wires together the store,
// object buckets, cache, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Objects *ObjectStore
	Cache   *contentCache

	loginLimiter *loginLimiter
	customRoutes []func(*App)
}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, buckets, middleware and routes, then
// starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.AdminPasswordHash == "" {
		return fmt.Errorf("folio: AdminPasswordHash is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	objects, err := NewObjectStore(a.Config.StorageDir, a.Config.URL)
	if err != nil {
		return fmt.Errorf("folio: init object store: %w", err)
	}
	a.Objects = objects

	a.Cache = newContentCache(a.Store, a.Config.CacheTTL)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Public object bytes: the durable URLs persisted on entity records.
	e.Static("/storage", a.Objects.Dir())

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public reads.
	api := e.Group("/api")
	api.GET("/posts", a.handleListPosts)
	api.GET("/posts/:slug", a.handleGetPost)
	api.GET("/apps", a.handleListApps)
	api.GET("/apps/featured", a.handleFeaturedApps)
	api.GET("/apps/:slug", a.handleGetApp)

	// Admin area. Login and the session probe stay outside the auth
	// guard; everything else requires an authenticated session.
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)
	e.GET("/admin/session", handleAdminSession)

	admin := e.Group("/admin", adminOnly)
	admin.GET("/posts", a.handleAdminListPosts)
	admin.POST("/posts", a.handleAdminCreatePost)
	admin.GET("/posts/:id", a.handleAdminGetPost)
	admin.PUT("/posts/:id", a.handleAdminUpdatePost)
	admin.DELETE("/posts/:id", a.handleAdminDeletePost)
	admin.GET("/apps", a.handleAdminListApps)
	admin.POST("/apps", a.handleAdminCreateApp)
	admin.GET("/apps/:id", a.handleAdminGetApp)
	admin.PUT("/apps/:id", a.handleAdminUpdateApp)
	admin.DELETE("/apps/:id", a.handleAdminDeleteApp)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback
// if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
