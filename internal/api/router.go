package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes builds the API route tree.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Post("/commands", s.handleDispatchCommands)

			r.Route("/complexcommands", func(r chi.Router) {
				r.Get("/", s.handleListTemplates)
				r.Post("/", s.handleCreateTemplate)
				r.Get("/{templateID}", s.handleGetTemplate)
				r.Put("/{templateID}", s.handleReplaceTemplate)
				r.Delete("/{templateID}", s.handleDeleteTemplate)
			})
		})

		r.Route("/devices/{deviceID}", func(r chi.Router) {
			r.Get("/", s.handleGetDevice)
			r.Get("/actuations", s.handleListActuations)
		})

		r.Get("/events", s.handleEvents)
	})

	return r
}

// handleHealth reports service liveness and transport status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := map[string]string{}

	if s.mqtt != nil {
		if s.mqtt.IsConnected() {
			checks["mqtt"] = "connected"
		} else {
			checks["mqtt"] = "disconnected"
			status = "degraded"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"service":    "conduit-core",
		"version":    s.version,
		"checks":     checks,
		"ws_clients": s.hub.ClientCount(),
	})
}
