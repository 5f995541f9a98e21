package api

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"utsav/config"
	"utsav/database"
	"utsav/middleware"
	"utsav/models"
	"utsav/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler sign up, sign in and sign out
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// Email an address decoded in lower case without surrounding spaces
type Email string

// UnmarshalJSON normalises the address
func (e *Email) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*e = Email(normalizeEmail(s))
	return nil
}

// SignUpRequest sign-up form
type SignUpRequest struct {
	Email    Email  `json:"email" binding:"required,email,max=100" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	Name     string `json:"name" binding:"required,max=100" example:"Asha"`
}

// SignInRequest sign-in form
type SignInRequest struct {
	Email    Email  `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// SessionResponse a signed-in session
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// CurrentUser the identity carried by the session
type CurrentUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers an account and its profile
// @Summary Sign up
// @Description Creates an account with a profile and returns a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "account"
// @Success 200 {object} Response{data=SessionResponse}
// @Failure 400 {object} Response "invalid input or email already registered"
// @Failure 500 {object} Response
// @Router /api/v1/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid sign-up details"))
		return
	}
	ctx := c.Request.Context()
	email := string(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name is required")
		return
	}

	n, err := database.Users.Count(ctx, database.Filter{"email": email})
	if err != nil {
		storeError(c, err, "", "failed to create account")
		return
	}
	if n > 0 {
		BadRequest(c, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "failed to hash password")
		return
	}

	user := models.User{Email: email, Password: string(hashed)}
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.Users.WithTx(tx).Insert(ctx, &user); err != nil {
			return err
		}
		return database.Profiles.WithTx(tx).Insert(ctx, &models.Profile{UserID: user.ID, Name: req.Name})
	})
	if database.IsDuplicateKey(err) {
		// lost a race with a concurrent sign-up for the same address
		BadRequest(c, "email already registered")
		return
	}
	if err != nil {
		storeError(c, err, "", "failed to create account")
		return
	}

	if h.emailService.Enabled() {
		go func(email, name string) {
			if err := h.emailService.SendWelcomeEmail(email, name); err != nil {
				slog.Warn("welcome email", "email", email, "error", err)
			}
		}(user.Email, req.Name)
	}

	h.respondSession(c, "account created", user)
}

// SignIn exchanges credentials for a token
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "credentials"
// @Success 200 {object} Response{data=SessionResponse}
// @Failure 400 {object} Response
// @Failure 401 {object} Response "invalid email or password"
// @Failure 429 {object} Response "too many attempts"
// @Router /api/v1/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid sign-in details"))
		return
	}

	user, err := database.Users.Get(c.Request.Context(), database.Filter{"email": string(req.Email)})
	if err != nil {
		if isNotFound(err) {
			Unauthorized(c, "invalid email or password")
			return
		}
		storeError(c, err, "", "failed to sign in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "invalid email or password")
		return
	}

	h.respondSession(c, "signed in", *user)
}

func (h *AuthHandler) respondSession(c *gin.Context, message string, user models.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to issue token")
		return
	}
	SuccessWithMessage(c, message, SessionResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.cfg.JWT.ExpireTime),
		User:      user,
	})
}

// SignOut revokes the current token
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/v1/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	middleware.RevokeToken(middleware.GetClaims(c))
	SuccessWithMessage(c, "signed out", nil)
}

// Me returns the signed-in user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=CurrentUser}
// @Failure 401 {object} Response
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, CurrentUser{
		ID:    middleware.GetCurrentUserID(c),
		Email: middleware.GetCurrentEmail(c),
	})
}
