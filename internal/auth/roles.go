package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// RoleResolver resolves the role and ban state for a verified identity. The
// lookup hits the user store on the request's critical path; the cache only
// short-circuits repeat lookups within its TTL.
type RoleResolver struct {
	users repository.UserRepository
	cache *RoleCache
}

// NewRoleResolver constructs a resolver. cache may be nil.
func NewRoleResolver(users repository.UserRepository, cache *RoleCache) *RoleResolver {
	return &RoleResolver{users: users, cache: cache}
}

// Resolve returns the role state for an email, or (nil, nil) when no such
// user exists.
func (r *RoleResolver) Resolve(ctx context.Context, email string) (*CachedRole, error) {
	if cached, ok := r.cache.Get(ctx, email); ok {
		return cached, nil
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	resolved := CachedRole{Role: user.Role, Banned: user.Banned}
	r.cache.Set(ctx, email, resolved)
	return &resolved, nil
}

// Invalidate drops any cached state for the email.
func (r *RoleResolver) Invalidate(ctx context.Context, email string) {
	r.cache.Invalidate(ctx, email)
}

// RequireAdmin is the second authorization gate. It runs after the token
// gate, looks the caller up in the user store, and rejects elevation when the
// user is unknown, banned, or not an admin.
func RequireAdmin(resolver *RoleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewMissingCredential()
		}

		resolved, err := resolver.Resolve(c.UserContext(), identity.Email)
		if err != nil {
			return apperrors.MapError(err)
		}
		if resolved == nil || resolved.Banned || resolved.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
