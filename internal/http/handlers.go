package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/log"
)

// handleHealth performs basic liveness check
func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Send(w, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports whether the store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	status, code := "ready", http.StatusOK
	if s.deps.Store == nil {
		checks["store"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.deps.Store.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Store ping failed", log.FieldError, err.Error())
		checks["store"] = "failed"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.deps.Advisor != nil && s.deps.Advisor.Enabled() {
		checks["advice"] = "ok"
	} else {
		checks["advice"] = "not_configured"
	}

	NewJSONResponse().Status(code).Send(w, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, "login", err)
		return
	}
	token, err := s.deps.Auth.Login(req.Password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Login failed",
			log.FieldClientIP, s.detector.ExtractClientIP(r))
		s.writeError(w, r, "login", err)
		return
	}
	NewJSONResponse().Header("Cache-Control", "no-store").Send(w, token)
}
