package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/service"
)

// singleUserRepo serves one login for handler tests.
type singleUserRepo struct {
	user *domain.User
}

func (r *singleUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (r *singleUserRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (r *singleUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return nil
}
func (r *singleUserRepo) UpdateActive(ctx context.Context, id string, active bool) error { return nil }
func (r *singleUserRepo) DeleteCascade(ctx context.Context, id string) error { return nil }
func (r *singleUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		copied := *r.user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *singleUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.user != nil && r.user.Email == email {
		copied := *r.user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}
func (r *singleUserRepo) List(ctx context.Context) ([]domain.User, error) { return nil, nil }
func (r *singleUserRepo) ListByRole(ctx context.Context, role domain.Role, activeOnly bool) ([]domain.User, error) {
	return nil, nil
}

func newLoginApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	repo := &singleUserRepo{user: &domain.User{
		ID:           "user-1",
		Email:        "qa@example.com",
		PasswordHash: hash,
		Role:         domain.RoleQA,
		IsActive:     true,
	}}
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
	handler := NewAuthHandler(service.NewAuthService(cfg, service.AuthDependencies{UserRepo: repo}))

	app := fiber.New()
	app.Post("/auth/login", handler.Login)
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestLoginFailureHidesTheReason(t *testing.T) {
	app := newLoginApp(t)

	unknownStatus, unknownBody := postLogin(t, app, `{"email":"nobody@example.com","password":"secret1"}`)
	wrongStatus, wrongBody := postLogin(t, app, `{"email":"qa@example.com","password":"nope"}`)

	if unknownStatus != http.StatusUnauthorized || wrongStatus != http.StatusUnauthorized {
		t.Errorf("statuses = %d/%d, want 401 for both", unknownStatus, wrongStatus)
	}
	if unknownBody != wrongBody {
		t.Errorf("unknown-email and wrong-password responses differ: %q vs %q", unknownBody, wrongBody)
	}
	if strings.Contains(unknownBody, "no rows") {
		t.Errorf("storage detail leaked to client: %q", unknownBody)
	}
	if !strings.Contains(unknownBody, "invalid credentials") {
		t.Errorf("body = %q, want the fixed invalid credentials message", unknownBody)
	}
}

func TestLoginSuccessStillWorks(t *testing.T) {
	app := newLoginApp(t)

	status, body := postLogin(t, app, `{"email":"qa@example.com","password":"secret1"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %q", status, body)
	}
	if !strings.Contains(body, "token") {
		t.Errorf("body = %q, want a token", body)
	}
}
