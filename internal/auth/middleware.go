package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "auth.identity"

// Middleware authenticates bearer tokens and enforces role ranks on gin routes.
type Middleware struct {
	authenticator Authenticator
	logger        *zap.Logger
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(authenticator Authenticator, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{authenticator: authenticator, logger: logger}
}

// Require rejects requests without a valid token for at least the given role.
func (m *Middleware) Require(required Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.authenticator.Authenticate(extractBearer(c.GetHeader("Authorization")))
		if err != nil {
			m.logger.Debug("authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !RoleAtLeast(identity.Role, required) {
			m.logger.Warn("role forbidden",
				zap.String("subject", identity.Subject),
				zap.String("role", string(identity.Role)),
				zap.String("required", string(required)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Require.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func extractBearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
