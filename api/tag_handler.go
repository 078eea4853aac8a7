package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/services"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newTagHandler(projects *services.ProjectService) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// getAllTags lists every tag
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.Tag "All tags"
// @Router /api/tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.projects.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}
