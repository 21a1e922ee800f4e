// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches all quiz and admin routes to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/next", h.advanceSession)
	mux.HandleFunc("GET /sessions/{sessionID}/result", h.getResult)
	mux.HandleFunc("POST /sessions/{sessionID}/reset", h.resetSession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.deleteSession)

	// Admin
	mux.HandleFunc("GET /admin/logs", h.listLogs)
	mux.HandleFunc("GET /admin/stats", h.getStats)
}
