// Package auth verifies bearer tokens issued by the identity service and
// enforces the catalog's authorization policies.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Gin context keys set by Authenticate
const (
	ContextUserID        = "user_id"
	ContextAdmin         = "admin"
	ContextTrustedMember = "trusted_member"
)

// APIKeyHeader carries the administrative key for service-to-service calls
const APIKeyHeader = "X-Api-Key"

const defaultSecret = "change-me-in-production"

// Claims represents JWT claims
type Claims struct {
	UserID        string `json:"user_id"`
	Admin         bool   `json:"admin"`
	TrustedMember bool   `json:"trusted_member"`
	jwt.RegisteredClaims
}

// Authenticator parses bearer tokens and applies role policies
type Authenticator struct {
	secret []byte
	apiKey string
	logger *logger.Logger
}

// NewAuthenticator creates an authenticator from raw config strings
func NewAuthenticator(cfg *config.JWTConfig, log *logger.Logger) *Authenticator {
	secret := cfg.Secret
	if secret == "" {
		secret = defaultSecret // default
	}

	return &Authenticator{
		secret: []byte(secret),
		apiKey: cfg.APIKey,
		logger: log.WithComponent("auth"),
	}
}

// IssueToken signs a token for the given identity
func (a *Authenticator) IssueToken(userID uuid.UUID, admin, trustedMember bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        userID.String(),
		Admin:         admin,
		TrustedMember: trustedMember,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "movies-backend",
			Subject:   userID.String(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken verifies signature and expiry and returns the claims
func (a *Authenticator) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, errors.New("invalid user ID in token")
	}

	return claims, nil
}

// Authenticate sets the viewer when a valid bearer token is present.
// Anonymous requests pass through; malformed or invalid tokens are rejected.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := a.ParseToken(tokenString)
		if err != nil {
			a.logger.Debug("Rejected bearer token: " + err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userID, _ := uuid.Parse(claims.UserID)
		c.Set(ContextUserID, userID)
		c.Set(ContextAdmin, claims.Admin)
		c.Set(ContextTrustedMember, claims.TrustedMember)
		c.Next()
	}
}

// RequireUser rejects anonymous requests
func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		c.Next()
	}
}

// RequireTrustedMember allows trusted members and admins
func (a *Authenticator) RequireTrustedMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if !c.GetBool(ContextTrustedMember) && !c.GetBool(ContextAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Trusted member role required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin allows admin tokens or a request carrying the configured API key
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.validAPIKey(c.GetHeader(APIKeyHeader)) {
			c.Next()
			return
		}
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if !c.GetBool(ContextAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}

func (a *Authenticator) validAPIKey(key string) bool {
	if a.apiKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) == 1
}

// UserID returns the authenticated user id
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// ViewerID returns the authenticated user id, or nil for anonymous requests
func ViewerID(c *gin.Context) *uuid.UUID {
	id, ok := UserID(c)
	if !ok {
		return nil
	}
	return &id
}
