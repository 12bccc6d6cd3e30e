// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

// IdentityKey is the context key for the identity derived from the request credential.
const IdentityKey ContextKey = "identity"

// CredentialSink receives the credential of each request.
type CredentialSink interface {
	SetCredential(credential string)
}

// SessionMiddleware forwards the caller's bearer credential to the backend session.
type SessionMiddleware struct {
	sink            CredentialSink
	identityService adapter.IdentityKeyService
}

// NewSessionMiddleware creates a new session middleware instance.
func NewSessionMiddleware(sink CredentialSink, identityService adapter.IdentityKeyService) *SessionMiddleware {
	return &SessionMiddleware{
		sink:            sink,
		identityService: identityService,
	}
}

// Require returns a Gin middleware handler that rejects requests without a bearer credential.
func (m *SessionMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Bearer authorization header is required",
				Code:  string(domainerror.ErrCodeNoIdentity),
			})
			c.Abort()
			return
		}

		credential := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		identity := m.identityService.IdentityKey(credential)
		if identity == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Credential is required",
				Code:  string(domainerror.ErrCodeNoIdentity),
			})
			c.Abort()
			return
		}

		m.sink.SetCredential(credential)
		c.Set(string(IdentityKey), identity)

		c.Next()
	}
}

// GetIdentityFromContext extracts the identity key from the Gin context.
func GetIdentityFromContext(c *gin.Context) (string, bool) {
	identity, exists := c.Get(string(IdentityKey))
	if !exists {
		return "", false
	}
	id, ok := identity.(string)
	return id, ok && id != ""
}
