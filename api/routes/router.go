package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adrianbarna/edusphere-backend-sub000/api/controllers"
	"github.com/adrianbarna/edusphere-backend-sub000/api/middleware"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/absences"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/auth"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/children"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/groups"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/incidents"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/messages"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/organizations"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/users"
	pkgAuth "github.com/adrianbarna/edusphere-backend-sub000/pkg/auth"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/auth/session"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        interface{ Ping(context.Context) error }
	RedisClient     *redis.Client
	SessionManager  sessionManager
	AuthService     *auth.Service
	RegisterService *auth.RegisterService
	Organizations   *organizations.Service
	Users           *users.Service
	Children        *children.Service
	Groups          *groups.Service
	Absences        *absences.Service
	Incidents       *incidents.Service
	Messages        *messages.Service
	Billing         *billing.Service
	Metrics         prometheus.Gatherer
}

type refreshAdapter struct {
	svc *auth.Service
}

func (a refreshAdapter) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*auth.RefreshResponse, error) {
	return a.svc.Refresh(ctx, claims, refreshToken)
}

func (a refreshAdapter) Logout(ctx context.Context, accessID string) error {
	return a.svc.Logout(ctx, accessID)
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(refreshAdapter{svc: deps.AuthService}, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(refreshAdapter{svc: deps.AuthService}, cfg.JWT, logg))
	})

	admin := string(enums.MemberRoleAdmin)
	educator := string(enums.MemberRoleEducator)
	parent := string(enums.MemberRoleParent)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/organizations/me", func(r chi.Router) {
			r.Get("/", controllers.OrganizationProfile(deps.Organizations, logg))
			r.With(middleware.RequireRole(logg, admin)).Put("/", controllers.OrganizationUpdate(deps.Organizations, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, admin))
			r.Post("/", controllers.UserCreate(deps.Users, logg))
			r.Get("/", controllers.UserList(deps.Users, logg))
			r.Get("/{userId}", controllers.UserDetail(deps.Users, logg))
			r.Patch("/{userId}", controllers.UserUpdate(deps.Users, logg))
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", controllers.GroupList(deps.Groups, logg))
			r.Get("/{groupId}", controllers.GroupDetail(deps.Groups, logg))
			r.With(middleware.RequireRole(logg, admin)).Post("/", controllers.GroupCreate(deps.Groups, logg))
			r.With(middleware.RequireRole(logg, admin)).Patch("/{groupId}", controllers.GroupUpdate(deps.Groups, logg))
		})

		r.Route("/children", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, admin, educator)).Get("/", controllers.ChildList(deps.Children, logg))
			r.With(middleware.RequireRole(logg, admin)).Post("/", controllers.ChildCreate(deps.Children, logg))
			r.Route("/{childId}", func(r chi.Router) {
				r.With(middleware.RequireRole(logg, admin, educator)).Get("/", controllers.ChildDetail(deps.Children, logg))
				r.With(middleware.RequireRole(logg, admin)).Patch("/", controllers.ChildUpdate(deps.Children, logg))

				r.Route("/absences", func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, admin, educator))
					r.Post("/", controllers.AbsenceRecord(deps.Absences, logg))
					r.Get("/", controllers.AbsenceList(deps.Absences, logg))
				})
			})
		})

		r.Route("/incidents", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, admin, educator)).Post("/", controllers.IncidentCreate(deps.Incidents, logg))
			r.Get("/", controllers.IncidentList(deps.Incidents, logg))
			r.Get("/{incidentId}", controllers.IncidentDetail(deps.Incidents, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", controllers.MessageSend(deps.Messages, logg))
			r.Get("/inbox", controllers.MessageInbox(deps.Messages, logg))
			r.Post("/{messageId}/read", controllers.MessageMarkRead(deps.Messages, logg))
		})

		r.Route("/billing", func(r chi.Router) {
			r.Route("/children/{childId}", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, admin, educator))
				r.Get("/charges", controllers.ChildCharges(deps.Billing, logg))
				r.Get("/payments", controllers.ChildPayments(deps.Billing, logg))
				r.With(middleware.RequireRole(logg, admin)).Post("/invoices", controllers.InvoiceGenerate(deps.Billing, logg))
			})

			r.Route("/my", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, parent))
				r.Get("/charges", controllers.ParentCharges(deps.Billing, logg))
				r.Get("/payments", controllers.ParentPayments(deps.Billing, logg))
			})

			r.With(middleware.RequireRole(logg, admin)).Post("/invoices/{invoiceId}/paid", controllers.InvoiceSetPaid(deps.Billing, logg))
			r.With(middleware.RequireRole(logg, admin)).Post("/payments/{paymentId}/paid", controllers.PaymentSetPaid(deps.Billing, logg))
		})
	})

	return r
}
