package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doorwarden/doorwarden/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	logsHandler := handlers.NewLogsHandler(s.events)
	statsHandler := handlers.NewStatsHandler(s.events)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/logs", logsHandler.List)
		r.Delete("/logs/{id}", logsHandler.Delete)
		r.Get("/stats", statsHandler.Get)
	})

	// Evidence images recorded by the gateway. Directory listing stays off.
	if s.evidenceDir != "" {
		fs := http.FileServer(http.Dir(s.evidenceDir))
		s.router.Get("/evidence/*", func(w http.ResponseWriter, r *http.Request) {
			http.StripPrefix("/evidence/", noDirListing(fs)).ServeHTTP(w, r)
		})
	}

	s.router.Get("/", s.serveIndex)
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// serveIndex returns a minimal landing page pointing at the API.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Doorwarden</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        p { color: #aaa; }
        a { color: #00d9ff; }
        code { background: #2a2a3e; padding: 2px 8px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Doorwarden</h1>
        <p>Security event log is available at <a href="/api/v1/logs">/api/v1/logs</a></p>
        <p>Health check at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
