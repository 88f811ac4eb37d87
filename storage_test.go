package folio

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestObjects(t *testing.T) *ObjectStore {
	t.Helper()
	o, err := NewObjectStore(filepath.Join(t.TempDir(), "storage"), "https://example.com")
	if err != nil {
		t.Fatalf("failed to create object store: %v", err)
	}
	return o
}

func TestObjectStorePutAndRemove(t *testing.T) {
	o := setupTestObjects(t)

	url, err := o.Put(BucketBlogImages, "my-post-123.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if url != "https://example.com/storage/blog_images/my-post-123.jpg" {
		t.Errorf("public URL = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(o.Dir(), BucketBlogImages, "my-post-123.jpg"))
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("object bytes = %q", data)
	}

	if err := o.Remove(BucketBlogImages, "my-post-123.jpg"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(o.Dir(), BucketBlogImages, "my-post-123.jpg")); !os.IsNotExist(err) {
		t.Error("object still present after Remove")
	}

	// Best-effort cleanup may hit already-gone objects.
	if err := o.Remove(BucketBlogImages, "my-post-123.jpg"); err != nil {
		t.Errorf("Remove of missing object should not error, got: %v", err)
	}
}

func TestObjectStoreRejectsUnknownBucket(t *testing.T) {
	o := setupTestObjects(t)

	if _, err := o.Put("secrets", "k.jpg", []byte("x")); err == nil {
		t.Error("Put into unknown bucket should fail")
	}
	if err := o.Remove("secrets", "k.jpg"); err == nil {
		t.Error("Remove from unknown bucket should fail")
	}
}

func TestObjectStoreRejectsPathTraversal(t *testing.T) {
	o := setupTestObjects(t)

	for _, key := range []string{"", "../escape.jpg", "a/b.jpg"} {
		if _, err := o.Put(BucketAppIcons, key, []byte("x")); err == nil {
			t.Errorf("Put with key %q should fail", key)
		}
	}
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/storage/app-icons/weather-icon-17000.png", "weather-icon-17000.png"},
		{"https://example.com/storage/blog_images/post%20image.jpg", "post image.jpg"},
		{"https://example.com/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := KeyFromURL(tt.url); got != tt.want {
			t.Errorf("KeyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
