package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/config"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/events"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

const uniqueViolationCode = "23505"

// AuthService coordinates token issuing, account ensure-on-sign-in, and the
// admin-gated role and ban mutations.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	roleCache  *auth.RoleCache
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleCache  *auth.RoleCache
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		roleCache:  deps.RoleCache,
		dispatcher: deps.Dispatcher,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// IssueToken mints a signed credential token for the supplied identity claim.
func (s *AuthService) IssueToken(email, name string) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(email, name)
}

// EnsureUser creates the account on first sign-in. The call is idempotent: a
// second ensure for the same email is a no-op reporting created=false.
func (s *AuthService) EnsureUser(ctx context.Context, name, email string) (*domain.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.NewPersistenceError("get user", err)
	}

	user := &domain.User{
		Name:  name,
		Email: email,
		Role:  domain.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent ensure for the same email may win the insert; the
		// unique constraint turns that into the already-exists outcome.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			existing, getErr := s.users.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, apperrors.NewPersistenceError("get user", getErr)
			}
			return existing, false, nil
		}
		return nil, false, apperrors.NewPersistenceError("create user", err)
	}
	return user, true, nil
}

// IsAdmin reports whether the account for the email holds the admin role.
func (s *AuthService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.NewPersistenceError("get user", err)
	}
	return user.IsAdmin() && !user.Banned, nil
}

// GrantAdmin sets the target user's role to admin and invalidates any cached
// role so the change is observed immediately.
func (s *AuthService) GrantAdmin(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.UpdateRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.NewPersistenceError("update role", err)
	}

	s.roleCache.Invalidate(ctx, user.Email)
	s.publish(ctx, events.EventUserRoleChanged, events.UserRoleChangedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	return user, nil
}

// SetBanStatus sets the target user's banned flag and invalidates any cached
// role state.
func (s *AuthService) SetBanStatus(ctx context.Context, userID string, banned bool) (*domain.User, error) {
	user, err := s.users.UpdateBanned(ctx, userID, banned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, apperrors.NewPersistenceError("update ban status", err)
	}

	s.roleCache.Invalidate(ctx, user.Email)
	s.publish(ctx, events.EventUserBanChanged, events.UserBanChangedPayload{
		UserID: user.ID,
		Email:  user.Email,
		Banned: user.Banned,
	})
	return user, nil
}

// ListUsers returns a page of accounts for the admin dashboard.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list users", err)
	}
	return users, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
