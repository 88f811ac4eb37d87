package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rushi053/folio"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	cfg := folio.SiteConfig{
		Name:              folio.EnvOr("SITE_NAME", "Rushiraj.me"),
		URL:               strings.TrimSuffix(folio.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:       folio.EnvOr("SITE_DESCRIPTION", ""),
		Author:            folio.EnvOr("SITE_AUTHOR", ""),
		Addr:              folio.EnvOr("ADDR", ":3000"),
		DatabasePath:      folio.EnvOr("DATABASE_PATH", "data/folio.db"),
		StorageDir:        folio.EnvOr("STORAGE_DIR", "data/storage"),
		AdminPasswordHash: folio.MustEnv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     folio.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:      strings.EqualFold(folio.EnvOr("COOKIE_SECURE", ""), "true"),
	}

	app := folio.New(cfg, folio.WithCustomRoutes(func(a *folio.App) {
		a.Echo.GET("/healthz", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
	}))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
