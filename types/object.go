package types

import (
	"net/url"
	"time"
)

// Object carries the metadata every resource returned by the GitHub REST API
// shares. It is embedded by value into concrete resource types.
type Object struct {
	id        int64
	url       string
	createdAt time.Time
	updatedAt time.Time
	etag      string
	htmlURL   *url.URL
}

// NewObject builds the shared metadata. A nil htmlURL marks a resource
// without a browsable page.
func NewObject(id int64, apiURL string, createdAt, updatedAt time.Time, etag string, htmlURL *url.URL) Object {
	o := Object{
		id:        id,
		url:       apiURL,
		createdAt: createdAt,
		updatedAt: updatedAt,
		etag:      etag,
	}
	if htmlURL != nil {
		u := *htmlURL
		o.htmlURL = &u
	}
	return o
}

func (o Object) ID() int64 {
	return o.id
}

// URL is the API url of the resource.
func (o Object) URL() string {
	return o.url
}

// CreatedAt is the zero time when the API did not report it.
func (o Object) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt is the zero time when the API did not report it.
func (o Object) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o Object) ETag() string {
	return o.etag
}

// HTMLURL returns the browsable web page of the resource. ok is false for
// resource types that have none.
func (o Object) HTMLURL() (u *url.URL, ok bool) {
	if o.htmlURL == nil {
		return nil, false
	}
	c := *o.htmlURL
	return &c, true
}
