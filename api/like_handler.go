package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/services"
)

type likeHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	metrics   *metrics
}

func newLikeHandler(projects *services.ProjectService, m *metrics) likeHandler {
	logger := log.With().Str("handlerName", "likeHandler").Logger()

	return likeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		metrics:   m,
	}
}

// getLikeStatus reports whether this visitor liked the project
// @Summary Like status
// @Description Reports the visitor's like and the project's like count. Visitors are identified by a hash of address and user agent.
// @Tags Likes
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} services.LikeState
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /api/projects/{projectID}/like [get]
func (h likeHandler) getLikeStatus() http.HandlerFunc {
	return h.serve("status", h.projects.LikeStatus)
}

// likeProject records a like for this visitor; repeating it is a no-op
// @Summary Like project
// @Tags Likes
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} services.LikeState
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /api/projects/{projectID}/like [post]
func (h likeHandler) likeProject() http.HandlerFunc {
	return h.serve("like", h.projects.Like)
}

// unlikeProject removes this visitor's like; repeating it is a no-op
// @Summary Unlike project
// @Tags Likes
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} services.LikeState
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /api/projects/{projectID}/like [delete]
func (h likeHandler) unlikeProject() http.HandlerFunc {
	return h.serve("unlike", h.projects.Unlike)
}

type likeAction func(ctx context.Context, projectID int, fingerprint string) (services.LikeState, error)

func (h likeHandler) serve(action string, do likeAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		state, err := do(r.Context(), projectID, visitorFingerprint(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if state.Changed {
			h.metrics.likeChanged(action)
		}

		h.responder.WriteJSON(w, state)
	}
}
