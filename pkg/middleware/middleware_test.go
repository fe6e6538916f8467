package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorsPreflight(t *testing.T) {
	r := gin.New()
	r.Use(Cors())
	r.POST("/spin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/spin", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	rejected := 0
	r := gin.New()
	r.Use(RateLimit(rate.NewLimiter(rate.Limit(0.001), 1), func(c *gin.Context) { rejected++ }))
	r.POST("/spin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/spin", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/spin", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, rejected)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Logger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
