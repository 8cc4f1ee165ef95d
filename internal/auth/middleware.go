package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the verified claim attached to the request context by the
// token gate. It carries only what the token asserts; role and ban state are
// resolved separately (see RequireAdmin) because tokens are long-lived.
type Identity struct {
	Email string
	Name  string
}

// TokenMiddleware is the first authorization gate. It validates token
// presence, signature, and expiry, and attaches the decoded identity to the
// request. It touches no store and mutates nothing.
type TokenMiddleware struct {
	tokens *TokenManager
}

// NewTokenMiddleware constructs the gate.
func NewTokenMiddleware(tokens *TokenManager) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Handle enforces token verification for protected routes.
func (m *TokenMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewMissingCredential()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewInvalidCredential("malformed authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidCredential("invalid or expired token")
	}

	c.Locals(identityKey, &Identity{Email: claims.Email, Name: claims.Name})
	return c.Next()
}

// IdentityFromContext retrieves the verified identity claim.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
