package query

import (
	"encoding/json"
	"strings"
)

// Key derives the cache key for an endpoint path and its parameter
// object. Params are serialized canonically (object keys sorted at
// every level), so two deep-equal parameter sets built in different
// insertion orders collide to the same key.
func Key(path string, params any) string {
	segments := strings.Join(splitPath(path), "/")
	if params == nil {
		return segments
	}
	return segments + "?" + canonicalJSON(params)
}

// Scoped prefixes a key with a session scope so gateway sessions never
// share entries.
func Scoped(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + "/" + key
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// canonicalJSON round-trips through an untyped value; encoding/json
// writes map keys in sorted order, which gives us the canonical form.
func canonicalJSON(params any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		return "null"
	}
	var untyped any
	if err := json.Unmarshal(raw, &untyped); err != nil {
		return string(raw)
	}
	canonical, err := json.Marshal(untyped)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}
