package middleware

import (
	"net/http"
	"strings"
)

// BodyLimitOverride raises the request-body cap for one route prefix.
// Upload routes need room for whole workbooks while everything else
// carries small JSON bodies.
type BodyLimitOverride struct {
	PathPrefix string
	MaxBytes   int64
}

// LimitBodyBytes caps request bodies at defaultMax except where an
// override matches the path. Prefixes match with or without the /api
// mount segment.
func LimitBodyBytes(defaultMax int64, overrides []BodyLimitOverride) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit := limitFor(r.URL.Path, defaultMax, overrides); limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitFor(path string, defaultMax int64, overrides []BodyLimitOverride) int64 {
	trimmed := strings.TrimPrefix(path, "/api")
	for _, o := range overrides {
		if o.PathPrefix == "" || o.MaxBytes <= 0 {
			continue
		}
		if strings.HasPrefix(path, o.PathPrefix) || strings.HasPrefix(trimmed, o.PathPrefix) {
			return o.MaxBytes
		}
	}
	return defaultMax
}
