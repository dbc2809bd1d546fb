package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Project endpoints
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Patch("/", s.handleUpdateProject)
				r.Delete("/", s.handleDeleteProject)
			})
		})

		// Switchboard endpoints
		r.Route("/switchboards", func(r chi.Router) {
			r.Get("/", s.handleListSwitchboards)
			r.Post("/", s.handleCreateSwitchboard)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSwitchboard)
				r.Patch("/", s.handleUpdateSwitchboard)
				r.Delete("/", s.handleDeleteSwitchboard)
				r.Get("/switches", s.handleListBoardSwitches)
				r.Get("/states", s.handleGetBoardStates)
			})
		})

		// Switch endpoints
		r.Route("/switches", func(r chi.Router) {
			r.Get("/", s.handleListSwitches)
			r.Post("/", s.handleCreateSwitch)
			r.Post("/toggle", s.handleToggleSwitches)
			r.Post("/lock", s.handleLockSwitches)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSwitch)
				r.Patch("/", s.handleUpdateSwitch)
				r.Delete("/", s.handleDeleteSwitch)
			})
		})

		// Audioboard endpoints
		r.Route("/audioboards", func(r chi.Router) {
			r.Get("/", s.handleListAudioboards)
			r.Post("/", s.handleCreateAudioboard)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAudioboard)
				r.Patch("/", s.handleUpdateAudioboard)
				r.Delete("/", s.handleDeleteAudioboard)
				r.Get("/registered", s.handleAudioboardRegistered)
			})
		})

		// Audiotrack endpoints
		r.Route("/audiotracks", func(r chi.Router) {
			r.Get("/", s.handleListAudiotracks)
			r.Post("/", s.handleCreateAudiotrack)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAudiotrack)
				r.Patch("/", s.handleUpdateAudiotrack)
				r.Delete("/", s.handleDeleteAudiotrack)
				r.Post("/control", s.handleControlAudiotrack)
			})
		})

		// DHT sensor endpoints
		r.Route("/sensors", func(r chi.Router) {
			r.Get("/", s.handleListSensors)
			r.Post("/", s.handleCreateSensor)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSensor)
				r.Patch("/", s.handleUpdateSensor)
				r.Delete("/", s.handleDeleteSensor)
				r.Get("/values", s.handleGetSensorValues)
			})
		})

		// Color preset endpoints
		r.Route("/colors", func(r chi.Router) {
			r.Get("/", s.handleListColors)
			r.Post("/", s.handleCreateColor)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetColor)
				r.Patch("/", s.handleUpdateColor)
				r.Delete("/", s.handleDeleteColor)
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
