package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/models"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(userID string, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks/2", nil)
	req.RemoteAddr = remote
	if userID != "" {
		req = req.WithContext(auth.WithClaims(req.Context(), &models.TokenClaims{Type: "access", UserID: userID}))
	}
	return req
}

func TestRateLimitByUser_SeparatesUsers(t *testing.T) {
	handler := RateLimitByUser(1, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, requestAs("1", "192.0.2.1:1000"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, requestAs("1", "192.0.2.1:1000"))
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, requestAs("2", "192.0.2.1:1000"))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimitByUser_FallsBackToIP(t *testing.T) {
	handler := RateLimitByUser(1, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, requestAs("", "192.0.2.7:1000"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, requestAs("", "192.0.2.7:2000"))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitByIP(t *testing.T) {
	handler := RateLimitByIP(2, nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestAs("", "198.51.100.4:1234"))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
