package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// The terminal UI is served from the local machine; nothing remote ever
// calls this API directly.
var defaultCORSOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://localhost:8321", // packaged terminal UI
	"http://127.0.0.1:8321",
}

// CORS returns middleware that applies the terminal's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
