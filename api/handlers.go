package api

import (
	"net/http"
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, m *metrics, secureCookie bool) *routeHandlers {
	handlers := &routeHandlers{
		projectHandler: newProjectHandler(deps.Projects),
		tagHandler:     newTagHandler(deps.Projects),
		likeHandler:    newLikeHandler(deps.Projects, m),
		authHandler:    newAuthHandler(deps.Auth, secureCookie),
	}
	if deps.Uploader != nil {
		handlers.uploadHandler = newUploadHandler(deps.Uploader)
	}
	return handlers
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Started string `json:"started"`
	Uptime  string `json:"uptime"`
}

// healthz reports liveness
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func healthz(responder Responder, startupTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, HealthResponse{
			Status:  "ok",
			Started: startupTime.UTC().Format(time.RFC3339),
			Uptime:  time.Since(startupTime).Round(time.Second).String(),
		})
	}
}
