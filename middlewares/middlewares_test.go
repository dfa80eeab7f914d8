package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/hotel-housekeeping/utils"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	r := gin.New()
	r.Use(handlers...)
	r.GET("/target", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, c.GetString("role"), c.GetString("request_id"))
	})
	return r
}

func hit(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/target", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "other clients have their own bucket")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	rl.Allow("10.0.0.3")
	assert.Len(t, rl.clients, 1, "idle buckets are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(NewRateLimiter(0.001, 1).RateLimit())

	assert.Equal(t, http.StatusOK, hit(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, nil).Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := hit(r, nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	w = hit(r, map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), "abc-123")
}

func TestAuthAndRole(t *testing.T) {
	secret := []byte("secret")
	r := newEngine(AuthMiddleware(secret), RequireRole(utils.RoleManager, utils.RoleFrontDesk))

	assert.Equal(t, http.StatusUnauthorized, hit(r, nil).Code)

	token, err := utils.GenerateToken(secret, "budi", utils.RoleHousekeeping, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, hit(r, map[string]string{"Authorization": "Bearer " + token}).Code)

	token, err = utils.GenerateToken(secret, "sari", utils.RoleFrontDesk, time.Hour)
	assert.NoError(t, err)
	w := hit(r, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), utils.RoleFrontDesk)
}

func TestCORSPreflight(t *testing.T) {
	r := newEngine(CORSMiddlewares("https://frontdesk.example"))
	r.OPTIONS("/target", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/target", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://frontdesk.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
