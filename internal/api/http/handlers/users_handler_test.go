package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/config"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

type stubUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	creates int
}

func newStubUsers(users ...*domain.User) *stubUsers {
	repo := &stubUsers{byEmail: make(map[string]*domain.User)}
	for _, u := range users {
		repo.byEmail[u.Email] = u
	}
	return repo
}

func (r *stubUsers) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	user.ID = "gen-" + user.Email
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Role = role
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) UpdateBanned(ctx context.Context, id string, banned bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Banned = banned
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUsers) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func newUsersApp(repo *stubUsers) (*fiber.App, *service.AuthService) {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLDays = 1

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: repo})
	gate := auth.NewTokenMiddleware(authService.TokenManager())
	resolver := auth.NewRoleResolver(repo, nil)

	handler := NewUsersHandler(authService)
	authHandler := NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	app.Put("/api/users", handler.Ensure)
	app.Get("/api/users/admin/:email", gate.Handle, authHandler.CheckAdmin)
	app.Patch("/api/users/:id/role", gate.Handle, auth.RequireAdmin(resolver), handler.GrantAdmin)
	app.Patch("/api/users/:id/ban", gate.Handle, auth.RequireAdmin(resolver), handler.SetBan)
	return app, authService
}

func bearer(t *testing.T, svc *service.AuthService, email string) string {
	t.Helper()
	token, _, err := svc.IssueToken(email, "")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestEnsureUser_CreatedThenAlreadyExists(t *testing.T) {
	repo := newStubUsers()
	app, _ := newUsersApp(repo)

	payload := bytes.NewBufferString(`{"name":"Alice","email":"a@x.com"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	payload = bytes.NewBufferString(`{"name":"Alice","email":"a@x.com"}`)
	req = httptest.NewRequest(http.MethodPut, "/api/users", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Data struct {
			Created bool `json:"created"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Data.Created)
	assert.Equal(t, 1, repo.creates)
}

func TestGrantAdmin_MemberForbiddenAdminSucceeds(t *testing.T) {
	repo := newStubUsers(
		&domain.User{ID: "U1", Email: "u1@x.com", Role: domain.RoleMember},
		&domain.User{ID: "m1", Email: "a@x.com", Role: domain.RoleMember},
		&domain.User{ID: "adm", Email: "admin@x.com", Role: domain.RoleAdmin},
	)
	app, svc := newUsersApp(repo)

	// Member attempt: forbidden, target unchanged.
	req := httptest.NewRequest(http.MethodPatch, "/api/users/U1/role", nil)
	req.Header.Set("Authorization", bearer(t, svc, "a@x.com"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, domain.RoleMember, repo.byEmail["u1@x.com"].Role)

	// Admin attempt: target becomes privileged.
	req = httptest.NewRequest(http.MethodPatch, "/api/users/U1/role", nil)
	req.Header.Set("Authorization", bearer(t, svc, "admin@x.com"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.RoleAdmin, repo.byEmail["u1@x.com"].Role)
}

func TestSetBan_AdminOnly(t *testing.T) {
	repo := newStubUsers(
		&domain.User{ID: "U1", Email: "u1@x.com", Role: domain.RoleMember},
		&domain.User{ID: "adm", Email: "admin@x.com", Role: domain.RoleAdmin},
	)
	app, svc := newUsersApp(repo)

	payload := bytes.NewBufferString(`{"banned":true}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/users/U1/ban", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, svc, "admin@x.com"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, repo.byEmail["u1@x.com"].Banned)
}

func TestCheckAdmin_OwnIdentityOnly(t *testing.T) {
	repo := newStubUsers(
		&domain.User{ID: "adm", Email: "admin@x.com", Role: domain.RoleAdmin},
	)
	app, svc := newUsersApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/users/admin/admin@x.com", nil)
	req.Header.Set("Authorization", bearer(t, svc, "admin@x.com"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"admin":true`)

	// Asking about someone else's identity is rejected.
	req = httptest.NewRequest(http.MethodGet, "/api/users/admin/other@x.com", nil)
	req.Header.Set("Authorization", bearer(t, svc, "admin@x.com"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGrantAdmin_ExpiredTokenRejected(t *testing.T) {
	repo := newStubUsers(
		&domain.User{ID: "adm", Email: "admin@x.com", Role: domain.RoleAdmin},
	)
	app, _ := newUsersApp(repo)

	expiredManager := auth.NewTokenManager("test-secret", time.Nanosecond)
	token, _, err := expiredManager.GenerateToken("admin@x.com", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodPatch, "/api/users/U1/role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
