package folio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleListPosts serves the public blog index: published posts, newest
// first.
func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Cache.PublishedPosts()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetPost(c echo.Context) error {
	post, err := a.Store.GetPostBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleListApps(c echo.Context) error {
	apps, err := a.Store.ListApps()
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []AppListing{}
	}
	return c.JSON(http.StatusOK, apps)
}

// handleFeaturedApps serves the home page's featured strip.
func (a *App) handleFeaturedApps(c echo.Context) error {
	apps, err := a.Cache.FeaturedApps()
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []AppListing{}
	}
	return c.JSON(http.StatusOK, apps)
}

func (a *App) handleGetApp(c echo.Context) error {
	app, err := a.Store.GetAppBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "app not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, app)
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}
