package controllers

import (
	"net/http"

	"github.com/adrianbarna/edusphere-backend-sub000/api/middleware"
	"github.com/adrianbarna/edusphere-backend-sub000/api/responses"
)

// PublicPing answers without authentication; used by uptime probes.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

// PrivatePing proves the full auth chain works and echoes the tenant the
// token resolved to.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"scope": "private", "status": "ok"}
		if orgID := middleware.OrgIDFromContext(r.Context()); orgID != "" {
			body["organization_id"] = orgID
		}
		responses.WriteSuccess(w, body)
	}
}
