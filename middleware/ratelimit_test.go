package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSignInRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(SignInRateLimit(2, 200*time.Millisecond))
	router.POST("/sign-in", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/sign-in", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, 200, doReq("192.168.1.1").Code)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
	w := doReq("192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many sign-in attempts")

	// other clients are unaffected
	assert.Equal(t, 200, doReq("192.168.1.2").Code)

	// window elapses
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
}

func TestWithin(t *testing.T) {
	now := time.Now()
	ts := []time.Time{now.Add(-time.Hour), now.Add(-time.Second), now}

	kept := within(ts, now.Add(-time.Minute))
	assert.Len(t, kept, 2)
	assert.Empty(t, within(nil, now))
}
