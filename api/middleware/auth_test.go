package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/adrianbarna/edusphere-backend-sub000/pkg/auth"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "edusphere-test",
	ExpirationMinutes: 15,
}

type fakeSessionChecker struct {
	has     bool
	err     error
	checked string
}

func (f *fakeSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	f.checked = accessID
	return f.has, f.err
}

func mintTestToken(t *testing.T, payload pkgAuth.AccessTokenPayload) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()
	token := mintTestToken(t, pkgAuth.AccessTokenPayload{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           enums.MemberRoleEducator,
		JTI:            "session-1",
	})

	checker := &fakeSessionChecker{has: true}

	var gotUser, gotOrg, gotRole string
	handler := Auth(testJWTConfig, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotOrg = OrgIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 but got %d: %s", w.Code, w.Body.String())
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user %s in context but got %q", userID, gotUser)
	}
	if gotOrg != orgID.String() {
		t.Fatalf("expected org %s in context but got %q", orgID, gotOrg)
	}
	if gotRole != string(enums.MemberRoleEducator) {
		t.Fatalf("unexpected role %q", gotRole)
	}
	if checker.checked != "session-1" {
		t.Fatalf("expected session check for session-1 but got %q", checker.checked)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, pkgAuth.AccessTokenPayload{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.MemberRoleParent,
		JTI:            "session-gone",
	})

	handler := Auth(testJWTConfig, &fakeSessionChecker{has: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	handler := RequireRole(nil, "admin", "educator")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "educator"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 but got %d", w.Code)
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	handler := RequireRole(nil, "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "parent"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 but got %d", w.Code)
	}
}
