package folio

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Bucket names mirror the hosting layout the site was built around.
const (
	BucketBlogImages     = "blog_images"
	BucketAppScreenshots = "app_screenshots"
	BucketAppIcons       = "app-icons"
)

var buckets = []string{BucketBlogImages, BucketAppScreenshots, BucketAppIcons}

// ObjectStore keeps uploaded media in named buckets on local disk and
// resolves the durable public URLs persisted on entity records. The
// bucket directories are served over HTTP under /storage/.
type ObjectStore struct {
	root    string
	baseURL string
}

// NewObjectStore creates the bucket directories under root. baseURL is
// the canonical site URL public object URLs are built from.
func NewObjectStore(root, baseURL string) (*ObjectStore, error) {
	for _, b := range buckets {
		if err := os.MkdirAll(filepath.Join(root, b), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", b, err)
		}
	}
	return &ObjectStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the directory the HTTP layer serves as /storage/.
func (o *ObjectStore) Dir() string {
	return o.root
}

// Put writes data under key in the named bucket and returns the object's
// public URL — the exact string that gets persisted on the entity.
func (o *ObjectStore) Put(bucket, key string, data []byte) (string, error) {
	if err := o.check(bucket, key); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(o.root, bucket, key), data, 0o644); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return o.PublicURL(bucket, key), nil
}

// Remove deletes the object under key. Removing a missing object is not
// an error, so best-effort cleanup can retry freely.
func (o *ObjectStore) Remove(bucket, key string) error {
	if err := o.check(bucket, key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(o.root, bucket, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL returns the stable HTTPS URL for an object.
func (o *ObjectStore) PublicURL(bucket, key string) string {
	return o.baseURL + "/storage/" + bucket + "/" + url.PathEscape(key)
}

// KeyFromURL extracts the object key from a stored public URL (its last
// path segment). Returns "" for URLs that do not look like object URLs.
func KeyFromURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	key := path.Base(parsed.Path)
	if key == "." || key == "/" {
		return ""
	}
	unescaped, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return unescaped
}

func (o *ObjectStore) check(bucket, key string) error {
	known := false
	for _, b := range buckets {
		if b == bucket {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown bucket %q", bucket)
	}
	// Keys are flat: a key that resolves outside its bucket is rejected.
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
