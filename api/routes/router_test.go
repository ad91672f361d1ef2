package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) { return false, nil }
func (stubSessions) Rotate(context.Context, string, string) (string, string, error) {
	return "", "", nil
}
func (stubSessions) Revoke(context.Context, string) error { return nil }

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "s", Issuer: "i", ExpirationMinutes: 5}
	return NewRouter(Deps{
		Config:         cfg,
		DBPinger:       stubPinger{},
		SessionManager: stubSessions{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-EduSphere-Env") != "test" {
		t.Fatal("expected env header on health response")
	}
}

func TestRouterPublicPing(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	paths := []string{
		"/api/v1/ping",
		"/api/v1/children",
		"/api/v1/billing/my/charges",
		"/api/v1/messages/inbox",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rec.Code)
		}
	}
}
