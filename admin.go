package folio

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts, try again later"})
	}
	pass := c.FormValue("password")
	if bcrypt.CompareHashAndPassword([]byte(a.Config.AdminPasswordHash), []byte(pass)) != nil {
		a.loginLimiter.Record(ip)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid password"})
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAdminSession lets the frontend probe auth state and pick up a
// CSRF token before rendering the admin area.
func handleAdminSession(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"authenticated": IsAdmin(c),
		"csrf_token":    CsrfToken(c),
	})
}

// --- Blog posts ---

func (a *App) handleAdminListPosts(c echo.Context) error {
	posts, err := a.Store.ListPosts()
	if err != nil {
		return err
	}
	posts = filterPosts(posts, c.QueryParam("q"), c.QueryParam("status"))
	if posts == nil {
		posts = []BlogPost{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleAdminGetPost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	return a.savePost(c, nil)
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return err
	}
	return a.savePost(c, &post)
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return err
	}
	if err := a.Store.DeletePost(post.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete post: " + err.Error()})
	}
	a.removeObjectByURL(c, BucketBlogImages, post.FeaturedImage)
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// --- App listings ---

func (a *App) handleAdminListApps(c echo.Context) error {
	apps, err := a.Store.ListApps()
	if err != nil {
		return err
	}
	apps = filterApps(apps, c.QueryParam("q"), c.QueryParam("status"))
	if apps == nil {
		apps = []AppListing{}
	}
	return c.JSON(http.StatusOK, apps)
}

func (a *App) handleAdminGetApp(c echo.Context) error {
	app, err := a.Store.GetApp(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "app not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, app)
}

func (a *App) handleAdminCreateApp(c echo.Context) error {
	return a.saveApp(c, nil)
}

func (a *App) handleAdminUpdateApp(c echo.Context) error {
	app, err := a.Store.GetApp(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "app not found"})
		}
		return err
	}
	return a.saveApp(c, &app)
}

func (a *App) handleAdminDeleteApp(c echo.Context) error {
	app, err := a.Store.GetApp(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "app not found"})
		}
		return err
	}
	if err := a.Store.DeleteApp(app.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete app: " + err.Error()})
	}
	a.removeObjectByURL(c, BucketAppScreenshots, app.ImageURL)
	a.removeObjectByURL(c, BucketAppIcons, app.IconURL)
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

// removeObjectByURL deletes the object a stored public URL points at,
// best-effort: failures are logged for operator visibility and never
// surfaced to the client.
func (a *App) removeObjectByURL(c echo.Context, bucket, url string) {
	if url == "" {
		return
	}
	key := KeyFromURL(url)
	if key == "" {
		return
	}
	if err := a.Objects.Remove(bucket, key); err != nil {
		c.Logger().Warnf("cleanup of %s/%s failed: %v", bucket, key, err)
	}
}

// filterPosts applies the admin list view's filters: case-insensitive
// substring search over title and excerpt, and a status filter of "all",
// "published" or "draft".
func filterPosts(posts []BlogPost, query, status string) []BlogPost {
	query = strings.ToLower(strings.TrimSpace(query))
	status = strings.ToLower(strings.TrimSpace(status))
	var out []BlogPost
	for _, p := range posts {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Excerpt), query) {
			continue
		}
		switch status {
		case "", "all":
		case "published":
			if !p.Published {
				continue
			}
		case "draft":
			if p.Published {
				continue
			}
		default:
			continue
		}
		out = append(out, p)
	}
	return out
}

// filterApps is filterPosts' counterpart: search over title and
// description, exact status match ("all" or one of the AppStatus values,
// case-insensitive).
func filterApps(apps []AppListing, query, status string) []AppListing {
	query = strings.ToLower(strings.TrimSpace(query))
	status = strings.ToLower(strings.TrimSpace(status))
	var out []AppListing
	for _, app := range apps {
		if query != "" &&
			!strings.Contains(strings.ToLower(app.Title), query) &&
			!strings.Contains(strings.ToLower(app.Description), query) {
			continue
		}
		if status != "" && status != "all" && strings.ToLower(string(app.Status)) != status {
			continue
		}
		out = append(out, app)
	}
	return out
}
