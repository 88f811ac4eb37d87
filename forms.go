package folio

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// mediaField describes one uploadable image slot on a content form.
type mediaField struct {
	bucket  string
	purpose string // object key suffix, "" for the primary image
	process bool   // normalize through processImage before upload
}

var (
	fieldFeaturedImage = mediaField{bucket: BucketBlogImages, process: true}
	fieldAppScreenshot = mediaField{bucket: BucketAppScreenshots, process: true}
	fieldAppIcon       = mediaField{bucket: BucketAppIcons, purpose: "icon"}
)

// uploadedObject tracks a same-submission upload so a failed create can
// compensate for it.
type uploadedObject struct {
	bucket, key string
}

// postForm carries the parsed admin blog-post form. Image is nil when
// the submission does not replace the stored featured image.
type postForm struct {
	Title     string
	Excerpt   string
	Content   string
	Tags      []string
	Published bool
	Image     *multipart.FileHeader
}

func parsePostForm(c echo.Context) (postForm, ValidationErrors) {
	errs := ValidationErrors{}
	f := postForm{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Excerpt:   strings.TrimSpace(c.FormValue("excerpt")),
		Content:   c.FormValue("content"),
		Tags:      SplitList(c.FormValue("tags")),
		Published: formBool(c.FormValue("published")),
	}
	if f.Title == "" {
		errs["title"] = "title is required"
	} else if Slugify(f.Title) == "" {
		errs["title"] = "title must contain at least one letter or digit"
	}
	if f.Excerpt == "" {
		errs["excerpt"] = "excerpt is required"
	}
	if strings.TrimSpace(f.Content) == "" {
		errs["content"] = "content is required"
	}
	f.Image = formFile(c, "image", errs)
	return f, errs
}

// appForm carries the parsed admin app-listing form.
type appForm struct {
	Title           string
	Description     string
	Status          AppStatus
	Features        []string
	Technologies    []string
	AppStoreLink    string
	ExpectedRelease string
	IsFeatured      bool
	Image           *multipart.FileHeader
	Icon            *multipart.FileHeader
}

func parseAppForm(c echo.Context) (appForm, ValidationErrors) {
	errs := ValidationErrors{}
	f := appForm{
		Title:           strings.TrimSpace(c.FormValue("title")),
		Description:     strings.TrimSpace(c.FormValue("description")),
		Features:        SplitList(c.FormValue("features")),
		Technologies:    SplitList(c.FormValue("technologies")),
		AppStoreLink:    strings.TrimSpace(c.FormValue("app_store_link")),
		ExpectedRelease: strings.TrimSpace(c.FormValue("expected_release")),
		IsFeatured:      formBool(c.FormValue("is_featured")),
	}
	if f.Title == "" {
		errs["title"] = "title is required"
	} else if Slugify(f.Title) == "" {
		errs["title"] = "title must contain at least one letter or digit"
	}
	if f.Description == "" {
		errs["description"] = "description is required"
	}
	status, ok := ParseAppStatus(c.FormValue("status"))
	if !ok {
		errs["status"] = "status must be Released, In development or Planning"
	}
	f.Status = status
	if len(f.Features) == 0 {
		errs["features"] = "at least one feature is required"
	}
	if len(f.Technologies) == 0 {
		errs["technologies"] = "at least one technology is required"
	}
	f.Image = formFile(c, "image", errs)
	f.Icon = formFile(c, "icon", errs)
	return f, errs
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1":
		return true
	}
	return false
}

func formFile(c echo.Context, name string, errs ValidationErrors) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	if fh.Size > maxUploadSize {
		errs[name] = "file too large (max 10MB)"
		return nil
	}
	return fh
}

// savePost runs the save transaction for a blog post: validate, derive
// the slug, upload media, persist. existing is nil in create mode. Every
// failure keeps the client on the form: validation errors come back per
// field, everything else as a single error message.
func (a *App) savePost(c echo.Context, existing *BlogPost) error {
	form, errs := parsePostForm(c)
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	post := BlogPost{
		Title:     form.Title,
		Slug:      Slugify(form.Title),
		Excerpt:   form.Excerpt,
		Content:   form.Content,
		Published: form.Published,
		Tags:      form.Tags,
	}
	if existing != nil {
		post.ID = existing.ID
		post.FeaturedImage = existing.FeaturedImage
	}

	var uploaded []uploadedObject
	if form.Image != nil {
		url, key, err := a.uploadMedia(c, form.Image, fieldFeaturedImage, post.Slug, post.FeaturedImage)
		if err != nil {
			a.compensateUploads(c, existing == nil, uploaded)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "image upload failed: " + err.Error()})
		}
		uploaded = append(uploaded, uploadedObject{fieldFeaturedImage.bucket, key})
		post.FeaturedImage = url
	}

	saved, err := a.persistPost(post, existing != nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		// Uploads stay in place: the stored row may not reference them yet,
		// but deleting here could race a concurrent successful save.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save post: " + err.Error()})
	}

	a.Cache.Invalidate()
	status := http.StatusOK
	if existing == nil {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

func (a *App) persistPost(p BlogPost, editing bool) (BlogPost, error) {
	if editing {
		return a.Store.UpdatePost(p)
	}
	return a.Store.CreatePost(p)
}

// saveApp is savePost's counterpart for app listings. The screenshot and
// icon uploads run sequentially; an icon failure aborts the save but does
// not roll back a screenshot that already uploaded unless the entity is
// being created.
func (a *App) saveApp(c echo.Context, existing *AppListing) error {
	form, errs := parseAppForm(c)
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	app := AppListing{
		Title:        form.Title,
		Slug:         Slugify(form.Title),
		Description:  form.Description,
		Status:       form.Status,
		Features:     form.Features,
		Technologies: form.Technologies,
		IsFeatured:   form.IsFeatured,
	}
	applyStatus(&app, form.AppStoreLink, form.ExpectedRelease)
	if existing != nil {
		app.ID = existing.ID
		app.ImageURL = existing.ImageURL
		app.IconURL = existing.IconURL
	}

	var uploaded []uploadedObject
	if form.Image != nil {
		url, key, err := a.uploadMedia(c, form.Image, fieldAppScreenshot, app.Slug, app.ImageURL)
		if err != nil {
			a.compensateUploads(c, existing == nil, uploaded)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "screenshot upload failed: " + err.Error()})
		}
		uploaded = append(uploaded, uploadedObject{fieldAppScreenshot.bucket, key})
		app.ImageURL = url
	}
	if form.Icon != nil {
		url, key, err := a.uploadMedia(c, form.Icon, fieldAppIcon, app.Slug, app.IconURL)
		if err != nil {
			a.compensateUploads(c, existing == nil, uploaded)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "icon upload failed: " + err.Error()})
		}
		uploaded = append(uploaded, uploadedObject{fieldAppIcon.bucket, key})
		app.IconURL = url
	}

	saved, err := a.persistApp(app, existing != nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "app not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save app: " + err.Error()})
	}

	a.Cache.Invalidate()
	status := http.StatusOK
	if existing == nil {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

func (a *App) persistApp(app AppListing, editing bool) (AppListing, error) {
	if editing {
		return a.Store.UpdateApp(app)
	}
	return a.Store.CreateApp(app)
}

// applyStatus enforces the availability invariant: a Released listing
// carries only its App Store link, everything else only an expected
// release window. This is the single write choke point for the pair, so
// a persisted row can never hold both.
func applyStatus(app *AppListing, appStoreLink, expectedRelease string) {
	if app.Status.Released() {
		app.AppStoreLink = appStoreLink
		app.ExpectedRelease = ""
	} else {
		app.AppStoreLink = ""
		app.ExpectedRelease = expectedRelease
	}
}

// uploadMedia persists one selected file to its bucket and returns the
// public URL and object key. When the entity already holds an object for
// this field, the replaced object is deleted best-effort first: a failure
// is logged and never blocks the save.
func (a *App) uploadMedia(c echo.Context, fh *multipart.FileHeader, field mediaField, slug, oldURL string) (string, string, error) {
	if oldURL != "" {
		if key := KeyFromURL(oldURL); key != "" {
			if err := a.Objects.Remove(field.bucket, key); err != nil {
				c.Logger().Warnf("delete of replaced object %s/%s failed: %v", field.bucket, key, err)
			}
		}
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	var data []byte
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if field.process {
		data, err = processImage(src)
		ext = ".jpg"
	} else {
		data, err = io.ReadAll(io.LimitReader(src, maxUploadSize))
	}
	if err != nil {
		return "", "", err
	}

	key := objectKey(slug, field.purpose, ext)
	url, err := a.Objects.Put(field.bucket, key, data)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// compensateUploads deletes objects uploaded earlier in a failed create
// submission so fresh entities never leak orphans. Edits leave them:
// removing an object a stored row might already reference is worse than
// the orphan.
func (a *App) compensateUploads(c echo.Context, creating bool, uploaded []uploadedObject) {
	if !creating {
		return
	}
	for _, u := range uploaded {
		if err := a.Objects.Remove(u.bucket, u.key); err != nil {
			c.Logger().Warnf("compensating delete of %s/%s failed: %v", u.bucket, u.key, err)
		}
	}
}
