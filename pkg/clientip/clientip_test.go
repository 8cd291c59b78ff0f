package clientip

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	t.Run("forwarded for takes first hop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
		assert.Equal(t, "203.0.113.9", FromRequest(req))
	})

	t.Run("real ip fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		assert.Equal(t, "203.0.113.7", FromRequest(req))
	})

	t.Run("remote addr fallback strips port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.4:53211"
		assert.Equal(t, "198.51.100.4", FromRequest(req))
	})

	t.Run("remote addr without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.4"
		assert.Equal(t, "198.51.100.4", FromRequest(req))
	})
}
