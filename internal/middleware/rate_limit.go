package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/BradenHooton/userservice/internal/auth"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/httprate"
)

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "rate limit exceeded")
}

// RateLimitByIP limits requests per client address
func RateLimitByIP(requestsPerMinute int, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + pkghttp.ExtractClientIP(r, ipConfig), nil
		}),
		httprate.WithLimitHandler(writeRateLimited),
	)
}

// RateLimitByUser limits requests per authenticated user, falling back to the client
// address when there is no usable principal. Mount after the auth middleware.
func RateLimitByUser(requestsPerMinute int, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if id, err := auth.CurrentUserID(r.Context()); err == nil {
				return "user:" + strconv.FormatInt(id, 10), nil
			}
			return "ip:" + pkghttp.ExtractClientIP(r, ipConfig), nil
		}),
		httprate.WithLimitHandler(writeRateLimited),
	)
}
