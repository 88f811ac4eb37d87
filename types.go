package folio

import (
	"sort"
	"strings"
	"time"
)

// AppStatus is the release state of an app listing. The set is closed:
// every row carries exactly one of these values, validated at form-parse
// time, and the status decides which of AppStoreLink/ExpectedRelease may
// be populated.
type AppStatus string

const (
	StatusReleased      AppStatus = "Released"
	StatusInDevelopment AppStatus = "In development"
	StatusPlanning      AppStatus = "Planning"
)

// ParseAppStatus matches a form value against the known statuses,
// case-insensitively. Returns false for anything outside the set.
func ParseAppStatus(s string) (AppStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "released":
		return StatusReleased, true
	case "in development":
		return StatusInDevelopment, true
	case "planning":
		return StatusPlanning, true
	}
	return "", false
}

// Released reports whether the status allows an App Store link.
func (s AppStatus) Released() bool { return s == StatusReleased }

// BlogPost is a blog entry stored in the blog_posts table. ID, CreatedAt
// and UpdatedAt are assigned by the store; Slug is derived from Title at
// save time and is not guaranteed unique.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Published     bool      `json:"published"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AppListing is an iOS app showcased in the portfolio, stored in the
// ios_apps table. AppStoreLink is populated only when Status is Released;
// ExpectedRelease only otherwise. Media fields hold public object URLs,
// never raw bytes.
type AppListing struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Status          AppStatus `json:"status"`
	Features        []string  `json:"features"`
	Technologies    []string  `json:"technologies"`
	ImageURL        string    `json:"image_url,omitempty"`
	IconURL         string    `json:"icon_url,omitempty"`
	AppStoreLink    string    `json:"app_store_link,omitempty"`
	ExpectedRelease string    `json:"expected_release,omitempty"`
	Slug            string    `json:"slug"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidationErrors maps form field names to human-readable messages. A
// non-empty value blocks submission before anything touches the store.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}
