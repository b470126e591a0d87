package integrations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/pyright-node/pkg/buildinfo"
	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/httputil"
)

// Client provides shared HTTP functionality for the remote sources
// (Node.js release index, archive downloads, npm registry). It handles
// caching, transport-level retries and common request headers.
type Client struct {
	http    *http.Client
	stream  *http.Client
	cache   *httputil.Cache
	headers map[string]string
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for cache to disable caching and nil for headers if no default
// headers are needed.
func NewClient(cache *httputil.Cache, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		stream:  NewStreamClient(),
		cache:   cache,
		headers: headers,
	}
}

// WithHTTPClient returns a copy of c that sends every request through hc.
// It is mainly useful for tests and for callers that need custom transports.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	cp.stream = hc
	return &cp
}

// WithCache returns a copy of c that stores Cached results in cache.
func (c *Client) WithCache(cache *httputil.Cache) *Client {
	cp := *c
	cp.cache = cache
	return &cp
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
// Only transport failures are retried.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = c.cache.Set(key, v)
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, _, err := c.doRequest(ctx, c.http, url)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(ErrCodeDecode, err, "decode %s", url)
	}
	return nil
}

// Stream performs an HTTP GET request and returns the open response body
// together with the advertised content length (-1 if unknown). The caller
// must close the body. Streams are never retried: a failed download has to
// be restarted from scratch.
func (c *Client) Stream(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	return c.doRequest(ctx, c.stream, url)
}

func (c *Client) doRequest(ctx context.Context, hc *http.Client, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)}
	}

	if err := checkStatus(url, resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

// checkStatus maps a response status to an error. Any non-2xx status is a
// hard failure and is never wrapped as retryable.
func checkStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "GET %s: status %d", url, code)
	default:
		return errors.New(errors.ErrCodeNetwork, "GET %s: status %d", url, code)
	}
}
