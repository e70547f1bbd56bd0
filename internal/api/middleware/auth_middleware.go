package middleware

import (
	"errors"
	"net/http"
	"strings"

	"parkshare/internal/identity"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	ClaimsKey               = "claims"
	UserIDKey               = "userID"
)

const msgInvalidCredentials = "Invalid authentication credentials"

type AuthMiddleware struct {
	verifier identity.Verifier
}

func NewAuthMiddleware(verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate verifies the bearer token and stores the caller's claims in
// the gin context. Every failure answers 401 with the same body.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.authenticate(false)
}

// AuthenticateWebSocket also accepts the token in the "token" query parameter,
// since browsers cannot set headers on a websocket handshake.
func (m *AuthMiddleware) AuthenticateWebSocket() gin.HandlerFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(AuthorizationHeaderKey))
		if !ok && allowQuery {
			token = c.Query("token")
			ok = token != ""
		}
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := m.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil || claims == nil || claims.Subject == "" {
			if err != nil && !errors.Is(err, identity.ErrUnauthenticated) {
				_ = c.Error(err)
			}
			abortUnauthorized(c)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], AuthorizationTypeBearer) {
		return "", false
	}
	return fields[1], true
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", AuthorizationTypeBearer)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgInvalidCredentials})
}

// CallerID returns the authenticated subject, or "" on a public route.
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func CallerClaims(c *gin.Context) *identity.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*identity.Claims)
	return claims
}
