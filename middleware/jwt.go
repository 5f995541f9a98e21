package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"utsav/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ctxUserID  = "userID"
	ctxEmail   = "email"
	ctxClaims  = "claims"
	authRoute  = "/auth"
	bearerPart = "Bearer "
)

// ErrTokenRevoked the token was signed out
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims carried in every access token
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var (
	jwtSecret []byte
	revoked   = newRevocationList()
)

// InitJWT sets the signing secret
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken signs an HS256 token with a unique id
func GenerateToken(userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken verifies signature, expiry and revocation
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if revoked.contains(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// RevokeToken rejects the token until it would have expired anyway
func RevokeToken(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expires := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	revoked.add(claims.ID, expires)
}

// JWTAuth requires a valid bearer token and stores the user in the context.
// Failures answer 401 with a redirect hint to the sign-in route.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPart) {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPart))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, ErrTokenRevoked) {
				msg = "session has been signed out"
			}
			abortUnauthorized(c, msg)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
		"data":    gin.H{"redirect": authRoute},
	})
}

// GetCurrentUserID returns the authenticated user id, 0 when absent
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentEmail returns the authenticated user's email
func GetCurrentEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetClaims returns the verified token claims, nil when absent
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

type revocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newRevocationList() *revocationList {
	return &revocationList{entries: make(map[string]time.Time)}
}

func (r *revocationList) add(id string, expires time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(time.Now())
	r.entries[id] = expires
}

func (r *revocationList) contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	expires, ok := r.entries[id]
	if !ok {
		return false
	}
	if time.Now().After(expires) {
		delete(r.entries, id)
		return false
	}
	return true
}

func (r *revocationList) pruneLocked(now time.Time) {
	for id, expires := range r.entries {
		if now.After(expires) {
			delete(r.entries, id)
		}
	}
}
