// Package cookie implements the process-wide cookie jar backing the
// session token and cached profile snapshot.
package cookie

import (
	"net/url"
	"sync"
	"time"

	"github.com/sensesdx/portalkit/core"
)

// Jar is an in-memory cookie jar. Names and values are URL-encoded on
// write and decoded on read; reads tolerate entries that were written
// without encoding, matching by raw or encoded name.
type Jar struct {
	mu      sync.RWMutex
	cookies map[string]entry
}

type entry struct {
	value     string
	path      string
	expiresAt time.Time // zero means session cookie
}

var _ core.CookieStore = (*Jar)(nil)

func NewJar() *Jar {
	return &Jar{cookies: make(map[string]entry)}
}

func (j *Jar) Set(name, value string, opts core.CookieOptions) {
	j.mu.Lock()
	defer j.mu.Unlock()

	e := entry{
		value: url.QueryEscape(value),
		path:  opts.Path,
	}
	if opts.MaxAge > 0 {
		e.expiresAt = time.Now().Add(opts.MaxAge)
	}
	if opts.MaxAge < 0 {
		// negative max-age expires immediately
		delete(j.cookies, url.QueryEscape(name))
		delete(j.cookies, name)
		return
	}
	j.cookies[url.QueryEscape(name)] = e
}

func (j *Jar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	for _, candidate := range []string{url.QueryEscape(name), name} {
		e, ok := j.cookies[candidate]
		if !ok {
			continue
		}
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			continue
		}
		return Decode(e.value), true
	}
	return "", false
}

func (j *Jar) Remove(name, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, url.QueryEscape(name))
	delete(j.cookies, name)
	_ = path // single jar, path scoping is the browser's concern
}

// SetRaw stores a value without encoding it, the way hand-written
// document.cookie assignments sometimes did. Get must still find it.
func (j *Jar) SetRaw(name, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = entry{value: value}
}

func (j *Jar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.cookies)
}

// Encode escapes a cookie value for the wire.
func Encode(v string) string {
	return url.QueryEscape(v)
}

// Decode unescapes leniently: a value that was never encoded (and so
// may fail unescaping) is returned as written.
func Decode(v string) string {
	decoded, err := url.QueryUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}
