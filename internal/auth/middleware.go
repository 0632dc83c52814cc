package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/break-planner/internal/domain"
	apperrors "github.com/spec-kit/break-planner/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// anonymousSubject is recorded as the actor when authentication is disabled.
const anonymousSubject = "anonymous"

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Role    domain.OperatorRole
}

// AuthMiddleware validates bearer tokens.
type AuthMiddleware struct {
	tokens  *TokenManager
	enabled bool
}

// NewAuthMiddleware constructs middleware. With enabled false every caller is
// treated as an anonymous manager.
func NewAuthMiddleware(tokens *TokenManager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enabled: enabled}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		c.Locals(principalKey, &Principal{Subject: anonymousSubject, Role: domain.OperatorRoleManager})
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Subject: claims.Subject, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
