package core

import "time"

// Ports define interfaces for external dependencies

// ============================================
// COOKIE STORE PORT
// ============================================

// CookieOptions mirror the attributes the browser jar understands.
type CookieOptions struct {
	MaxAge   time.Duration
	Path     string
	Secure   bool
	SameSite string // "lax", "strict" or "none"
}

// CookieStore persists the session token and the advisory profile
// snapshot. Implementations must URL-encode names and values on write,
// decode symmetrically on read, and tolerate values that were written
// unencoded (lenient match by raw or encoded name).
type CookieStore interface {
	Set(name, value string, opts CookieOptions)
	Get(name string) (string, bool)
	Remove(name, path string)
}

// Cookie names shared by every store implementation.
const (
	TokenCookie   = "accessToken"
	ProfileCookie = "user"
)

// ============================================
// QUERY CACHE PORT
// ============================================

// CacheEntry is a cached query result. Stale entries are kept but any
// read of a stale key must trigger a re-fetch.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
}

// Cache stores query results by canonical key.
type Cache interface {
	Get(key string) (*CacheEntry, error)
	Set(key string, entry *CacheEntry) error
	// MarkStale flags every key starting with prefix so the next read
	// re-fetches. Used by mutation success handlers.
	MarkStale(prefix string) error
	Delete(key string) error
	Clear() error
}

// CacheWithStats extends Cache with statistics tracking
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// NOTIFICATION PORT
// ============================================

// Notifier is the single sink for user-visible outcome messages. The
// query/mutation layer is the only producer; views never format their
// own error text.
type Notifier interface {
	Success(message string)
	Error(message string)
}
