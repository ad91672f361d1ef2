package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/adrianbarna/edusphere-backend-sub000/pkg/auth"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/auth/session"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db/models"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	pkgerrors "github.com/adrianbarna/edusphere-backend-sub000/pkg/errors"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "edusphere-test",
	ExpirationMinutes: 15,
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, "parola123")
	sessions := &stubSessionManager{refreshToken: "refresh-abc"}
	svc := newTestService(t, &stubAuthUserRepo{user: user}, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Ana@Example.com",
		Password: "parola123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken != "refresh-abc" {
		t.Fatalf("token pair missing: %+v", resp)
	}
	if resp.User.ID != user.ID {
		t.Fatal("profile mismatch")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.OrganizationID != user.OrganizationID || claims.Role != user.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ID != sessions.generatedID {
		t.Fatal("jti must match the stored session id")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "parola123")
	svc := newTestService(t, &stubAuthUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "gresit"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubAuthUserRepo{err: gorm.ErrRecordNotFound}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nimeni@example.com", Password: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t, "parola123")
	user.Active = false
	svc := newTestService(t, &stubAuthUserRepo{user: user}, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "parola123"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	sessions := &stubSessionManager{refreshToken: "next-refresh", rotatedID: "next-jti"}
	svc := newTestService(t, &stubAuthUserRepo{}, sessions)

	claims := &pkgauth.AccessTokenClaims{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.MemberRoleParent,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: "old-jti",
		},
	}
	resp, err := svc.Refresh(context.Background(), claims, "provided-refresh")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "next-refresh" {
		t.Fatalf("new refresh token missing: %+v", resp)
	}
	parsed, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if parsed.ID != "next-jti" || parsed.UserID != claims.UserID {
		t.Fatalf("rotated claims mismatch: %+v", parsed)
	}
	if sessions.revokedID != "" {
		t.Fatal("refresh must not revoke explicitly; rotation replaces the session")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, &stubAuthUserRepo{}, sessions)

	claims := &pkgauth.AccessTokenClaims{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.MemberRoleParent,
	}
	_, err := svc.Refresh(context.Background(), claims, "stale")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newTestService(t, &stubAuthUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revokedID != "jti-1" {
		t.Fatalf("session not revoked: %q", sessions.revokedID)
	}
}

func TestLogoutRequiresAccessID(t *testing.T) {
	svc := newTestService(t, &stubAuthUserRepo{}, &stubSessionManager{})

	err := svc.Logout(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func newTestService(t *testing.T, repo userRepository, sessions sessionManager) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          "ana@example.com",
		PasswordHash:   hash,
		FirstName:      "Ana",
		LastName:       "Ionescu",
		Role:           enums.MemberRoleAdmin,
		Active:         true,
	}
}

type stubAuthUserRepo struct {
	user *models.User
	err  error
}

func (s *stubAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubAuthUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotatedID    string
	rotateErr    error
	generatedID  string
	revokedID    string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generatedID = accessID
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.rotatedID, s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return nil
}
