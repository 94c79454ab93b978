package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newDocsRouter(cfg DocsConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", DocsAccess(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func requestDocsFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDocsAccess(t *testing.T) {
	t.Run("disabled docs are not found", func(t *testing.T) {
		w := requestDocsFrom(newDocsRouter(DocsConfig{Enabled: false}), "192.0.2.10:5000")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"API documentation is not available"}`, w.Body.String())
	})

	t.Run("no allow list serves everyone", func(t *testing.T) {
		w := requestDocsFrom(newDocsRouter(DocsConfig{Enabled: true}), "198.51.100.7:5000")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "docs", w.Body.String())
	})

	router := newDocsRouter(DocsConfig{
		Enabled:    true,
		AllowedIPs: []string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"},
	})

	tests := []struct {
		name       string
		remoteAddr string
		wantStatus int
	}{
		{"exact address", "127.0.0.1:5000", http.StatusOK},
		{"inside range", "10.20.30.40:5000", http.StatusOK},
		{"outside range", "192.0.2.10:5000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := requestDocsFrom(router, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
