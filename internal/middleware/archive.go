package middleware

import (
	"context"
	"net/http"

	"github.com/drstein77/inventory/internal/compress"
)

type archiveKey struct{}

// ArchiveTypeMiddleware reads the archiveType query parameter, falling back to
// zip for anything unknown, and stores it in the request context.
func ArchiveTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveType := r.URL.Query().Get("archiveType")
		if archiveType != compress.Tar && archiveType != compress.Zip {
			archiveType = compress.Zip
		}

		ctx := context.WithValue(r.Context(), archiveKey{}, archiveType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArchiveType returns the archive kind chosen by ArchiveTypeMiddleware.
func ArchiveType(ctx context.Context) string {
	if kind, ok := ctx.Value(archiveKey{}).(string); ok {
		return kind
	}
	return compress.Zip
}
