package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"utsav/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authRouter(h *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/sign-up", h.SignUp)
	r.POST("/auth/sign-in", h.SignIn)
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth())
	authorized.POST("/auth/sign-out", h.SignOut)
	authorized.GET("/auth/me", h.Me)
	return r
}

func TestAuthHandler_SignUp(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	h := NewAuthHandler(testConfig())

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE `email` = \\?").
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `profiles`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(authRouter(h), "POST", "/auth/sign-up",
		`{"email":" Asha@Example.com ","password":"secret123","name":"Asha"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session SessionResponse
	resp := decodeData(t, w, &session)
	assert.Equal(t, "account created", resp.Message)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, uint(1), session.User.ID)
	assert.Equal(t, "asha@example.com", session.User.Email)
	assert.NotContains(t, w.Body.String(), "password")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_SignUp_EmailTaken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	h := NewAuthHandler(testConfig())

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doJSON(authRouter(h), "POST", "/auth/sign-up",
		`{"email":"asha@example.com","password":"secret123","name":"Asha"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_SignUp_ConcurrentDuplicate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	h := NewAuthHandler(testConfig())

	// both requests passed the count; this one loses on the unique index
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'asha@example.com' for key 'users.idx_users_email'"})
	mock.ExpectRollback()

	w := doJSON(authRouter(h), "POST", "/auth/sign-up",
		`{"email":"asha@example.com","password":"secret123","name":"Asha"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmail_UnmarshalNormalises(t *testing.T) {
	var req SignInRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"  Ravi@Example.COM\t","password":"x"}`), &req))
	assert.Equal(t, Email("ravi@example.com"), req.Email)

	assert.Error(t, json.Unmarshal([]byte(`{"email":42}`), &req))
}

func TestAuthHandler_SignUp_Validation(t *testing.T) {
	h := NewAuthHandler(testConfig())
	router := authRouter(h)

	bodies := []string{
		`{"email":"asha@example.com","password":"123","name":"Asha"}`,
		`{"email":"not-an-email","password":"secret123","name":"Asha"}`,
		`{"email":"asha@example.com","password":"secret123"}`,
		`{"email":"asha@example.com","password":"secret123","name":"   "}`,
		`{"email":"   ","password":"secret123","name":"Asha"}`,
	}
	for _, body := range bodies {
		assert.Equal(t, http.StatusBadRequest, doJSON(router, "POST", "/auth/sign-up", body).Code, body)
	}
}

func userRow(t *testing.T, password string) *sqlmock.Rows {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password", "created_at", "updated_at"}).
		AddRow(3, "ravi@example.com", string(hash), time.Now(), time.Now())
}

func TestAuthHandler_SignIn(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	h := NewAuthHandler(testConfig())

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `email` = \\?").
		WillReturnRows(userRow(t, "secret123"))

	w := doJSON(authRouter(h), "POST", "/auth/sign-in", `{"email":"ravi@example.com","password":"secret123"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var session SessionResponse
	decodeData(t, w, &session)

	claims, err := middleware.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "ravi@example.com", claims.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_SignIn_PaddedEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	router := authRouter(NewAuthHandler(testConfig()))

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `email` = \\?").WillReturnRows(userRow(t, "secret123"))

	w := doJSON(router, "POST", "/auth/sign-in", `{"email":" Ravi@Example.com ","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	router := authRouter(NewAuthHandler(testConfig()))

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRow(t, "secret123"))
	w := doJSON(router, "POST", "/auth/sign-in", `{"email":"ravi@example.com","password":"wrong-one"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w = doJSON(router, "POST", "/auth/sign-in", `{"email":"nobody@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_MeAndSignOut(t *testing.T) {
	cfg := testConfig()
	router := authRouter(NewAuthHandler(cfg))

	token, err := middleware.GenerateToken(5, "meera@example.com", time.Hour)
	require.NoError(t, err)

	do := func(method, path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(method, path, token))
		if path == "/auth/me" && w.Code == http.StatusOK {
			var me CurrentUser
			decodeData(t, w, &me)
			assert.Equal(t, CurrentUser{ID: 5, Email: "meera@example.com"}, me)
		}
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("GET", "/auth/me"))
	assert.Equal(t, http.StatusOK, do("POST", "/auth/sign-out"))
	assert.Equal(t, http.StatusUnauthorized, do("GET", "/auth/me"))
}
