package server

import (
	"net/http"

	apperrors "github.com/biolens/biolens/internal/errors"
	servermw "github.com/biolens/biolens/internal/server/middleware"
)

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/health/live", s.handleHealth)
	s.router.Get("/health/ready", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.Get("/v1/tools", s.handleListTools)
	s.router.Post("/v1/tools/{name}", s.handleCallTool)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		requestID := servermw.GetRequestID(r.Context())
		apperrors.RespondWithError(w, requestID, apperrors.NewNotFoundError("the requested resource was not found"))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		requestID := servermw.GetRequestID(r.Context())
		apperrors.RespondWithError(w, requestID, apperrors.NewValidationError("method not allowed for this resource"))
	})
}
