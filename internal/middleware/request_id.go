package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID tags every request with an id that the error envelope and
// the request log echo back, so a failed upload can be matched to its
// run record afterwards. A caller-supplied X-Request-Id is honored.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
