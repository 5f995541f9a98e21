package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"utsav/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
	InitJWT(config.GlobalConfig)
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := GenerateToken(1, "asha@example.com", 24*time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	other, _ := GenerateToken(1, "asha@example.com", 24*time.Hour)
	otherClaims, err := ParseToken(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestParseToken_Invalid(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	_, err := ParseToken("")
	assert.Error(t, err)

	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)

	expired, _ := GenerateToken(1, "a@b.c", -time.Minute)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	token, _ := GenerateToken(1, "a@b.c", time.Hour)
	jwtSecret = []byte("rotated")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, _ := GenerateToken(7, "ravi@example.com", time.Hour)
	claims, err := ParseToken(token)
	require.NoError(t, err)

	RevokeToken(claims)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRevocationList_Expiry(t *testing.T) {
	r := newRevocationList()
	r.add("old", time.Now().Add(-time.Second))
	r.add("live", time.Now().Add(time.Hour))

	assert.False(t, r.contains("old"))
	assert.True(t, r.contains("live"))
	assert.False(t, r.contains("unknown"))
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "id:%d %s", GetCurrentUserID(c), GetCurrentEmail(c))
	})

	do := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/auth"`)

	assert.Equal(t, http.StatusUnauthorized, do("Basic xyz").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer ").Code)

	token, _ := GenerateToken(42, "user42@example.com", time.Hour)
	w = do("Bearer " + token)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "id:42 user42@example.com", w.Body.String())

	claims, _ := ParseToken(token)
	RevokeToken(claims)
	w = do("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "signed out")
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Nil(t, GetClaims(c))

	c.Set("userID", uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
