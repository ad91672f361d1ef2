package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// allowedOrigins lists every frontend that may call the API with
// credentials. local dev stays on 3000.
var allowedOrigins = []string{
	"http://localhost:3000",
	"https://app.edusphere.ro",
	"https://staging.edusphere.ro",
}

// CORS applies the browser origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
