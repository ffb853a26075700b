package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWith(mw gin.HandlerFunc, method, origin string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(mw)
	router.GET("/api/v1/shops", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/api/v1/shops", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSWithConfig(t *testing.T) {
	whitelist := CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "https://shop.example.com"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	tests := []struct {
		name        string
		cfg         CORSConfig
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCreds   string
		wantMethods string
	}{
		{"default rejects cross-origin", DefaultCORSConfig(), "GET", "http://evil.example", http.StatusOK, "", "", ""},
		{"default allows same-origin", DefaultCORSConfig(), "GET", "", http.StatusOK, "", "", ""},
		{"whitelisted origin", whitelist, "GET", "https://shop.example.com", http.StatusOK, "https://shop.example.com", "true", "GET, POST"},
		{"unknown origin", whitelist, "GET", "http://evil.example", http.StatusOK, "", "", ""},
		{"preflight allowed", whitelist, "OPTIONS", "http://localhost:3000", http.StatusNoContent, "http://localhost:3000", "true", "GET, POST"},
		{"preflight rejected", whitelist, "OPTIONS", "http://evil.example", http.StatusNoContent, "", "", ""},
		{"wildcard never sends credentials", CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}, "GET", "http://any.example", http.StatusOK, "*", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWith(CORSWithConfig(tt.cfg), tt.method, tt.origin)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.wantMethods, w.Header().Get("Access-Control-Allow-Methods"))
		})
	}

	t.Run("max age and expose headers", func(t *testing.T) {
		w := serveWith(CORSWithConfig(whitelist), "GET", "http://localhost:3000")
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestCORSConfigFrom(t *testing.T) {
	t.Run("uses configured lists", func(t *testing.T) {
		cfg := CORSConfigFrom(config.HTTPConfig{
			CORSAllowOrigins: []string{"https://market.example"},
			CORSAllowMethods: []string{"GET"},
			CORSAllowHeaders: []string{"Authorization"},
		})
		assert.Equal(t, []string{"https://market.example"}, cfg.AllowOrigins)
		assert.Equal(t, []string{"GET"}, cfg.AllowMethods)
		assert.Equal(t, []string{"Authorization"}, cfg.AllowHeaders)
	})

	t.Run("keeps defaults for empty lists", func(t *testing.T) {
		cfg := CORSConfigFrom(config.HTTPConfig{})
		assert.Empty(t, cfg.AllowOrigins)
		assert.Contains(t, cfg.AllowMethods, "PUT")
		assert.Contains(t, cfg.AllowHeaders, "Authorization")
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.GinRequestIDKey))
	})

	t.Run("generates a uuid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps provided id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "client-req-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-req-1", w.Body.String())
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Body.String(), 36)
	})
}

func TestSecure(t *testing.T) {
	w := serveWith(Secure(), "GET", "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithConfig_HSTS(t *testing.T) {
	tests := []struct {
		name string
		cfg  SecurityConfig
		want string
	}{
		{"all options", SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 63072000, HSTSIncludeSubdomains: true, HSTSPreload: true}, "max-age=63072000; includeSubDomains; preload"},
		{"max age only", SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 31536000}, "max-age=31536000"},
		{"disabled", SecurityConfig{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWith(SecureWithConfig(tt.cfg), "GET", "")
			assert.Equal(t, tt.want, w.Header().Get("Strict-Transport-Security"))
			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		})
	}
}
