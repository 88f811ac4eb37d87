package folio

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = sql.ErrNoRows

// timeFormat is RFC3339 with a fixed-width fractional second so that
// stored timestamps order correctly under SQLite's text comparison.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps a SQLite database and provides CRUD operations for blog
// posts and app listings. Ids and timestamps are assigned here, never by
// callers.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe
	// with WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 0,
    featured_image TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS ios_apps (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL,
    features TEXT NOT NULL DEFAULT '',
    technologies TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    icon_url TEXT NOT NULL DEFAULT '',
    app_store_link TEXT NOT NULL DEFAULT '',
    expected_release TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL,
    is_featured INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

func encodeList(vals []string) string {
	return strings.Join(FilterEmpty(vals), ",")
}

func decodeList(s string) []string {
	if s == "" {
		return nil
	}
	return SplitList(s)
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- Blog posts ---

const postColumns = `id, title, slug, excerpt, content, published, featured_image, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var published int
	var tags, created, updated string
	if err := r.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &published, &p.FeaturedImage, &tags, &created, &updated); err != nil {
		return BlogPost{}, err
	}
	p.Published = published == 1
	p.Tags = decodeList(tags)
	p.CreatedAt = decodeTime(created)
	p.UpdatedAt = decodeTime(updated)
	return p, nil
}

// CreatePost inserts a new post, assigning its id and timestamps, and
// returns the stored record.
func (s *Store) CreatePost(p BlogPost) (BlogPost, error) {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Exec(`INSERT INTO blog_posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, boolInt(p.Published), p.FeaturedImage,
		encodeList(p.Tags), encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt))
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// UpdatePost rewrites the mutable fields of an existing post by id and
// bumps updated_at. Returns ErrNotFound if no row matches.
func (s *Store) UpdatePost(p BlogPost) (BlogPost, error) {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, published = ?, featured_image = ?, tags = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Slug, p.Excerpt, p.Content, boolInt(p.Published), p.FeaturedImage,
		encodeList(p.Tags), encodeTime(p.UpdatedAt), p.ID)
	if err != nil {
		return BlogPost{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return BlogPost{}, err
	}
	if n == 0 {
		return BlogPost{}, ErrNotFound
	}
	return s.GetPost(p.ID)
}

// GetPost returns a single post by id regardless of published status.
func (s *Store) GetPost(id string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostBySlug returns a published post by slug. Slugs are not unique;
// when several posts share one, the most recently updated wins, which
// keeps the ambiguity deterministic.
func (s *Store) GetPostBySlug(slug string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM blog_posts WHERE slug = ? AND published = 1 ORDER BY updated_at DESC LIMIT 1`, slug)
	return scanPost(row)
}

// ListPosts returns every post (published and drafts) ordered by most
// recently updated, for the admin list view.
func (s *Store) ListPosts() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM blog_posts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPublishedPosts returns published posts ordered by creation date
// descending, for the public blog.
func (s *Store) ListPublishedPosts() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM blog_posts WHERE published = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// DeletePost removes a post by id. Deleting an unknown id is not an error.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

// --- App listings ---

const appColumns = `id, title, description, status, features, technologies, image_url, icon_url, app_store_link, expected_release, slug, is_featured, created_at, updated_at`

func scanApp(r rowScanner) (AppListing, error) {
	var a AppListing
	var status string
	var featured int
	var features, technologies, created, updated string
	if err := r.Scan(&a.ID, &a.Title, &a.Description, &status, &features, &technologies,
		&a.ImageURL, &a.IconURL, &a.AppStoreLink, &a.ExpectedRelease, &a.Slug, &featured, &created, &updated); err != nil {
		return AppListing{}, err
	}
	a.Status = AppStatus(status)
	a.Features = decodeList(features)
	a.Technologies = decodeList(technologies)
	a.IsFeatured = featured == 1
	a.CreatedAt = decodeTime(created)
	a.UpdatedAt = decodeTime(updated)
	return a, nil
}

// CreateApp inserts a new listing, assigning its id and timestamps, and
// returns the stored record.
func (s *Store) CreateApp(a AppListing) (AppListing, error) {
	a.ID = uuid.NewString()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.db.Exec(`INSERT INTO ios_apps (`+appColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, string(a.Status), encodeList(a.Features), encodeList(a.Technologies),
		a.ImageURL, a.IconURL, a.AppStoreLink, a.ExpectedRelease, a.Slug, boolInt(a.IsFeatured),
		encodeTime(a.CreatedAt), encodeTime(a.UpdatedAt))
	if err != nil {
		return AppListing{}, err
	}
	return a, nil
}

// UpdateApp rewrites the mutable fields of an existing listing by id and
// bumps updated_at. Returns ErrNotFound if no row matches.
func (s *Store) UpdateApp(a AppListing) (AppListing, error) {
	a.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`UPDATE ios_apps SET title = ?, description = ?, status = ?, features = ?, technologies = ?, image_url = ?, icon_url = ?, app_store_link = ?, expected_release = ?, slug = ?, is_featured = ?, updated_at = ? WHERE id = ?`,
		a.Title, a.Description, string(a.Status), encodeList(a.Features), encodeList(a.Technologies),
		a.ImageURL, a.IconURL, a.AppStoreLink, a.ExpectedRelease, a.Slug, boolInt(a.IsFeatured),
		encodeTime(a.UpdatedAt), a.ID)
	if err != nil {
		return AppListing{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return AppListing{}, err
	}
	if n == 0 {
		return AppListing{}, ErrNotFound
	}
	return s.GetApp(a.ID)
}

// GetApp returns a single listing by id.
func (s *Store) GetApp(id string) (AppListing, error) {
	row := s.db.QueryRow(`SELECT `+appColumns+` FROM ios_apps WHERE id = ?`, id)
	return scanApp(row)
}

// GetAppBySlug returns a listing by slug; most recently updated wins on
// collision.
func (s *Store) GetAppBySlug(slug string) (AppListing, error) {
	row := s.db.QueryRow(`SELECT `+appColumns+` FROM ios_apps WHERE slug = ? ORDER BY updated_at DESC LIMIT 1`, slug)
	return scanApp(row)
}

// ListApps returns every listing ordered by most recently updated.
func (s *Store) ListApps() ([]AppListing, error) {
	rows, err := s.db.Query(`SELECT ` + appColumns + ` FROM ios_apps ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []AppListing
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListFeaturedApps returns featured listings, most recently updated
// first, capped at limit.
func (s *Store) ListFeaturedApps(limit int) ([]AppListing, error) {
	rows, err := s.db.Query(`SELECT `+appColumns+` FROM ios_apps WHERE is_featured = 1 ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []AppListing
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// DeleteApp removes a listing by id. Deleting an unknown id is not an error.
func (s *Store) DeleteApp(id string) error {
	_, err := s.db.Exec(`DELETE FROM ios_apps WHERE id = ?`, id)
	return err
}
