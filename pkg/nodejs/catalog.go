package nodejs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/httputil"
	"github.com/matzehuels/pyright-node/pkg/integrations"
)

// DefaultBaseURL is the official Node.js release directory.
const DefaultBaseURL = "https://nodejs.org/download/release"

// Version is one entry of the remote release index.
type Version struct {
	Version     string   `json:"version"`
	Date        string   `json:"date"`
	Files       []string `json:"files"`
	NPM         string   `json:"npm,omitempty"`
	V8          string   `json:"v8"`
	UV          string   `json:"uv,omitempty"`
	Zlib        string   `json:"zlib,omitempty"`
	OpenSSL     string   `json:"openssl,omitempty"`
	Modules     string   `json:"modules,omitempty"`
	LTS         bool     `json:"-"`
	LTSCodename string   `json:"-"`
	Security    bool     `json:"security"`
}

// UnmarshalJSON accepts the index's "lts" field, which is either false or
// the release line's codename.
func (v *Version) UnmarshalJSON(data []byte) error {
	type plain Version
	aux := struct {
		*plain
		LTS json.RawMessage `json:"lts"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v.LTS, v.LTSCodename = false, ""
	raw := bytes.TrimSpace(aux.LTS)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
	case bytes.Equal(raw, []byte("true")):
		v.LTS = true
	default:
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("lts: %w", err)
		}
		v.LTS, v.LTSCodename = name != "", name
	}
	return nil
}

// MarshalJSON writes "lts" back in the index's own shape so cached copies
// decode identically.
func (v Version) MarshalJSON() ([]byte, error) {
	type plain Version
	var lts any = false
	switch {
	case v.LTSCodename != "":
		lts = v.LTSCodename
	case v.LTS:
		lts = true
	}
	return json.Marshal(struct {
		plain
		LTS any `json:"lts"`
	}{plain(v), lts})
}

// HasFile reports whether the release publishes an artifact for the given
// index file tag (for example "linux-x64").
func (v Version) HasFile(tag string) bool {
	for _, f := range v.Files {
		if f == tag {
			return true
		}
	}
	return false
}

type CatalogOptions struct {
	// Client performs the HTTP request. Required.
	Client *integrations.Client
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Cache persists the index across processes. Nil disables it.
	Cache *httputil.Cache
	// Refresh bypasses Cache.
	Refresh bool
	Logger  *log.Logger
}

// Catalog is the remote release index. The index is fetched at most once
// per Catalog; a Catalog is not safe for concurrent use.
type Catalog struct {
	client  *integrations.Client
	baseURL string
	refresh bool
	logger  *log.Logger

	versions []Version
}

func NewCatalog(opts CatalogOptions) *Catalog {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := opts.Client
	if client == nil {
		client = integrations.NewClient(nil, nil)
	}
	return &Catalog{
		client:  client.WithCache(opts.Cache.Namespace("nodejs:")),
		baseURL: base,
		refresh: opts.Refresh,
		logger:  loggerOrDiscard(opts.Logger),
	}
}

func (c *Catalog) BaseURL() string { return c.baseURL }

// ForTarget returns the catalog of releases built for target. It is c
// itself unless target's builds live under a different root, in which case
// the returned catalog has its own index.
func (c *Catalog) ForTarget(target Target) *Catalog {
	root, err := releaseRoot(c.baseURL, target)
	if err != nil || root == c.baseURL {
		return c
	}
	cp := *c
	cp.baseURL = root
	cp.versions = nil
	return &cp
}

// FetchIndex returns the release index, newest first. Only the first call
// touches the network (or the disk cache).
func (c *Catalog) FetchIndex(ctx context.Context) ([]Version, error) {
	if c.versions != nil {
		return c.versions, nil
	}

	url := integrations.JoinURL(c.baseURL, "index.json")
	c.logger.Debug("fetching release index", "url", url)

	var versions []Version
	key := c.baseURL + "/index.json"
	err := c.client.Cached(ctx, key, c.refresh, &versions, func() error {
		return c.fetch(ctx, url, &versions)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch node release index: %w", err)
	}
	if len(versions) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "node release index at %s is empty", url)
	}

	c.versions = versions
	c.logger.Debug("release index loaded", "versions", len(versions), "latest", versions[0].Version)
	return versions, nil
}

// fetch issues exactly one GET. A status failure is final; only transport
// errors reach the client's retry loop.
func (c *Catalog) fetch(ctx context.Context, url string, out *[]Version) error {
	return c.client.Get(ctx, url, out)
}

// Latest returns the newest release. It panics if the index has not been
// fetched.
func (c *Catalog) Latest() Version {
	if c.versions == nil {
		panic("nodejs: Catalog.Latest called before FetchIndex")
	}
	return c.versions[0]
}

// LatestLTS returns the newest long-term-support release. It panics if the
// index has not been fetched.
func (c *Catalog) LatestLTS() (Version, bool) {
	if c.versions == nil {
		panic("nodejs: Catalog.LatestLTS called before FetchIndex")
	}
	for _, v := range c.versions {
		if v.LTS {
			return v, true
		}
	}
	return Version{}, false
}

// ResolveLatest fetches the index if needed and returns the newest release.
func (c *Catalog) ResolveLatest(ctx context.Context) (Version, error) {
	if _, err := c.FetchIndex(ctx); err != nil {
		return Version{}, err
	}
	return c.Latest(), nil
}

// Find looks up a release by version. Both "22.11.0" and "v22.11.0" are
// accepted.
func (c *Catalog) Find(ctx context.Context, version string) (Version, error) {
	want, err := NormalizeVersion(version)
	if err != nil {
		return Version{}, err
	}
	versions, err := c.FetchIndex(ctx)
	if err != nil {
		return Version{}, err
	}
	for _, v := range versions {
		if semver.Compare(v.Version, want) == 0 {
			return v, nil
		}
	}
	return Version{}, errors.New(errors.ErrCodeNotFound, "node %s is not in the release index", want)
}

// NormalizeVersion canonicalises a node version string to the index's
// "vMAJOR.MINOR.PATCH" form.
func NormalizeVersion(version string) (string, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", errors.New(errors.ErrCodeInvalidVersion, "invalid node version %q", version)
	}
	return semver.Canonical(v), nil
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
