// Package httputil provides HTTP utilities shared by the remote clients.
//
// # Overview
//
//   - [Cache]: File-based response caching
//   - [Retry]: Retry with exponential backoff for transport failures
//
// # Caching
//
// [Cache] stores decoded responses in the filesystem
// ($XDG_CACHE_HOME/pyright-node/http) with a configurable TTL. The Node.js
// release index and npm dist-tags are cached this way so that repeated
// language-server launches do not hit the network every time.
//
// Cache keys should be namespaced by source to avoid collisions:
//
//	cache, err := httputil.NewCache("", time.Hour)
//	index := cache.Namespace("nodejs:")
//
// A nil *Cache is valid and behaves as an always-missing cache.
//
// # Retry
//
// [Retry] retries only errors wrapped in [RetryableError]. Clients wrap
// transport errors and nothing else: a non-2xx status is a definitive answer
// and surfaces immediately.
package httputil
