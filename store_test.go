package folio

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.CreatePost(BlogPost{
		Title:     "My First Post",
		Slug:      "my-first-post",
		Excerpt:   "A short excerpt",
		Content:   "Hello from the blog.",
		Published: true,
		Tags:      []string{"Swift", "SwiftUI"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("CreatePost should assign an id")
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatal("CreatePost should assign timestamps")
	}

	got, err := s.GetPost(saved.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "My First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "My First Post")
	}
	if got.Slug != "my-first-post" {
		t.Errorf("Slug = %q, want %q", got.Slug, "my-first-post")
	}
	if got.FeaturedImage != "" {
		t.Errorf("FeaturedImage = %q, want empty", got.FeaturedImage)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "Swift" || got.Tags[1] != "SwiftUI" {
		t.Errorf("Tags = %v, want [Swift SwiftUI]", got.Tags)
	}
	if !got.Published {
		t.Error("Published should be true")
	}
}

func TestUpdatePost(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.CreatePost(BlogPost{Title: "Original", Slug: "original", Excerpt: "e", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	saved.Title = "Updated"
	saved.Slug = "updated"
	saved.Tags = []string{"go"}
	got, err := s.UpdatePost(saved)
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated")
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", saved.CreatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(saved.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, saved.CreatedAt)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.UpdatePost(BlogPost{ID: "missing", Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostBySlug(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(BlogPost{Title: "Draft", Slug: "shared", Excerpt: "e", Content: "c", Published: false}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Drafts are invisible to slug lookup.
	if _, err := s.GetPostBySlug("shared"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft-only slug, got %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	published, err := s.CreatePost(BlogPost{Title: "Live", Slug: "shared", Excerpt: "e", Content: "c", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.GetPostBySlug("shared")
	if err != nil {
		t.Fatalf("GetPostBySlug failed: %v", err)
	}
	if got.ID != published.ID {
		t.Errorf("GetPostBySlug resolved %q, want the most recently updated published post %q", got.ID, published.ID)
	}
}

func TestListPostsOrder(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.CreatePost(BlogPost{Title: "First", Slug: "first", Excerpt: "e", Content: "c", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := s.CreatePost(BlogPost{Title: "Second", Slug: "second", Excerpt: "e", Content: "c", Published: false}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Touching the older post moves it to the top of the admin list.
	time.Sleep(2 * time.Millisecond)
	if _, err := s.UpdatePost(first); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	posts, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPosts count = %d, want 2", len(posts))
	}
	if posts[0].Slug != "first" {
		t.Errorf("ListPosts[0] = %q, want %q (most recently updated)", posts[0].Slug, "first")
	}

	published, err := s.ListPublishedPosts()
	if err != nil {
		t.Fatalf("ListPublishedPosts failed: %v", err)
	}
	if len(published) != 1 || published[0].Slug != "first" {
		t.Errorf("ListPublishedPosts = %v, want only the published post", published)
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.CreatePost(BlogPost{Title: "To Delete", Slug: "to-delete", Excerpt: "e", Content: "c"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := s.DeletePost(saved.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("post should not exist after delete, got err: %v", err)
	}

	// Deleting an unknown id is not an error.
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestCreateAndGetApp(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.CreateApp(AppListing{
		Title:        "Weather App",
		Slug:         "weather-app",
		Description:  "Forecasts",
		Status:       StatusReleased,
		Features:     []string{"Clean UI", "Widgets"},
		Technologies: []string{"SwiftUI", "WeatherKit"},
		AppStoreLink: "https://apps.apple.com/app/weather",
		IsFeatured:   true,
	})
	if err != nil {
		t.Fatalf("CreateApp failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("CreateApp should assign an id")
	}

	got, err := s.GetApp(saved.ID)
	if err != nil {
		t.Fatalf("GetApp failed: %v", err)
	}
	if got.Status != StatusReleased {
		t.Errorf("Status = %q, want %q", got.Status, StatusReleased)
	}
	if got.AppStoreLink != "https://apps.apple.com/app/weather" {
		t.Errorf("AppStoreLink = %q", got.AppStoreLink)
	}
	if got.ExpectedRelease != "" {
		t.Errorf("ExpectedRelease = %q, want empty for a released app", got.ExpectedRelease)
	}
	if len(got.Features) != 2 || got.Features[0] != "Clean UI" {
		t.Errorf("Features = %v", got.Features)
	}
	if !got.IsFeatured {
		t.Error("IsFeatured should be true")
	}

	bySlug, err := s.GetAppBySlug("weather-app")
	if err != nil {
		t.Fatalf("GetAppBySlug failed: %v", err)
	}
	if bySlug.ID != saved.ID {
		t.Errorf("GetAppBySlug resolved %q, want %q", bySlug.ID, saved.ID)
	}
}

func TestListFeaturedApps(t *testing.T) {
	s := setupTestStore(t)

	for i, title := range []string{"One", "Two", "Three", "Four"} {
		featured := i != 1 // "Two" is not featured
		if _, err := s.CreateApp(AppListing{
			Title: title, Slug: Slugify(title), Description: "d",
			Status: StatusPlanning, ExpectedRelease: "Q4 2026", IsFeatured: featured,
		}); err != nil {
			t.Fatalf("CreateApp failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	apps, err := s.ListFeaturedApps(3)
	if err != nil {
		t.Fatalf("ListFeaturedApps failed: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("ListFeaturedApps count = %d, want 3", len(apps))
	}
	if apps[0].Title != "Four" {
		t.Errorf("ListFeaturedApps[0] = %q, want most recently updated first", apps[0].Title)
	}
	for _, app := range apps {
		if app.Title == "Two" {
			t.Error("unfeatured app returned by ListFeaturedApps")
		}
	}
}

func TestDeleteApp(t *testing.T) {
	s := setupTestStore(t)

	saved, err := s.CreateApp(AppListing{Title: "Gone", Slug: "gone", Description: "d", Status: StatusPlanning})
	if err != nil {
		t.Fatalf("CreateApp failed: %v", err)
	}
	if err := s.DeleteApp(saved.ID); err != nil {
		t.Fatalf("DeleteApp failed: %v", err)
	}
	if _, err := s.GetApp(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("app should not exist after delete, got err: %v", err)
	}
}
