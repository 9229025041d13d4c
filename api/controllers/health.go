package controllers

import (
	"net/http"
	"time"

	"github.com/tallypos/terminal/api/responses"
)

// Health reports liveness for the terminal daemon itself. Backend
// reachability is deliberately not part of this check; the terminal stays up
// when the backend is down.
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"status":  "ok",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
