package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/httputil"
)

const httpTimeout = 30 * time.Second

// ErrCodeDecode is reported when a response body is not the JSON shape the
// client expected.
const ErrCodeDecode errors.Code = "DECODE_ERROR"

// NewHTTPClient creates an HTTP client with a standard timeout for JSON
// requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewStreamClient creates an HTTP client for archive downloads. It has no
// overall timeout; cancellation comes from the request context.
func NewStreamClient() *http.Client {
	return &http.Client{}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// JoinURL appends path segments to base, escaping each segment and
// collapsing duplicate slashes at the joints.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(strings.Trim(s, "/")))
	}
	return b.String()
}
