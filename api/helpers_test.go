package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"utsav/config"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)
	return cfg
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// setEventMiddleware stands in for EventAccess with an already owned event
func setEventMiddleware(event models.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", event.UserID)
		c.Set("event", &event)
		c.Next()
	}
}

func diwaliEvent() models.Event {
	return models.Event{
		ID:          7,
		UserID:      1,
		EventName:   "Diwali at home",
		EventType:   "Diwali",
		EventDate:   time.Date(2026, 11, 8, 0, 0, 0, 0, time.Local),
		BudgetTotal: 10000,
	}
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data field into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) Response {
	t.Helper()
	var raw struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return Response{Code: raw.Code, Message: raw.Message}
}

var (
	expenseColumns   = []string{"id", "event_id", "category", "title", "amount", "created_at"}
	checklistColumns = []string{"id", "event_id", "title", "is_completed", "created_at"}
	toGiveColumns    = []string{"id", "event_id", "recipient_name", "budget", "gift_item", "status", "created_at"}
	receivedColumns  = []string{"id", "event_id", "giver_name", "gift_item", "gift_value", "return_status", "created_at"}
)

func authedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
