package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/models"
	"github.com/rpupo63/designer-portfolio-backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// projectIDParam reads the numeric {projectID} path parameter.
func projectIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "projectID")
	if raw == "" {
		return 0, errs.NewBadRequestError("missing projectID")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError("invalid projectID")
	}
	return id, nil
}

// ownedProject loads the project named in the path and checks that the
// session user owns it.
func (h projectHandler) ownedProject(r *http.Request) (*models.ProjectWithTags, error) {
	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}

	userID, ok := ctxGetUserID(r.Context())
	if !ok {
		return nil, errs.Unauthorized
	}

	project, err := h.projects.GetProject(r.Context(), projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("project %d", projectID))
	}
	if project.UserID != userID {
		h.logger.Warn().Int("projectId", projectID).Int("userId", userID).Msg("Rejected change to project owned by another user")
		return nil, errs.NewOwnershipError("project", projectID)
	}
	return project, nil
}

func projectFilter(r *http.Request) (services.ProjectFilter, error) {
	query := r.URL.Query()
	filter := services.ProjectFilter{
		Status:   models.PublishedStatus(query.Get("status")),
		Section:  models.SectionDisplay(query.Get("section")),
		Category: query.Get("category"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, errs.NewInvalidFieldError("status", "must be one of draft, published, hidden")
	}
	if filter.Section != "" && !filter.Section.Valid() {
		return filter, errs.NewInvalidFieldError("section", "must be one of general, featured, best, top")
	}
	return filter, nil
}

// getAllProjects lists projects with owners and tags
// @Summary List projects
// @Description Lists all projects in creation order, optionally filtered by status, section and category
// @Tags Projects
// @Produce json
// @Param status query string false "draft, published or hidden"
// @Param section query string false "general, featured, best or top"
// @Param category query string false "Category, matched case-insensitively"
// @Success 200 {array} models.ProjectWithTags "Projects with owner and tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := projectFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projects.ListProjects(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project
// @Summary Get project
// @Description Retrieves one project with its owner and tags
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.ProjectWithTags "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError(fmt.Sprintf("project %d", projectID)))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getUserProjects lists the session user's projects
// @Summary List own projects
// @Description Lists every project owned by the signed-in user, drafts and hidden ones included
// @Tags Projects
// @Produce json
// @Success 200 {array} models.ProjectWithTags "Projects owned by the user"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/user/projects [get]
func (h projectHandler) getUserProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ctxGetUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		projects, err := h.projects.ListProjectsByOwner(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// createProject creates a new project owned by the session user
// @Summary Create project
// @Description Creates a project and attaches its tags, creating unknown tags on the way
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body ProjectRequest true "Project data"
// @Success 201 {object} models.ProjectWithTags "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating project"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ctxGetUserID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req ProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.CreateProject(r.Context(), req.toProject(userID), req.Tags)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces a project's fields and tags
// @Summary Update project
// @Description Replaces a project's fields and its full tag list; id, owner and creation time are kept
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param project body ProjectRequest true "Project data"
// @Success 200 {object} models.ProjectWithTags "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Project owned by another user"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := h.ownedProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req ProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.UpdateProject(r.Context(), existing.ID, req.toProject(existing.UserID), req.Tags)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// updateProjectStatus changes only the published status
// @Summary Update project status
// @Description Publishes, hides or drafts a project without touching its other fields or tags
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} models.ProjectWithTags "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid status"
// @Failure 403 {object} ErrorResponse "Forbidden - Project owned by another user"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/status [patch]
func (h projectHandler) updateProjectStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := h.ownedProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req StatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.UpdateStatus(r.Context(), existing.ID, models.PublishedStatus(req.PublishedStatus))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project and its tag links
// @Summary Delete project
// @Description Deletes a project after removing its tag links
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} map[string]string "Project deleted successfully"
// @Failure 403 {object} ErrorResponse "Forbidden - Project owned by another user"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := h.ownedProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.DeleteProject(r.Context(), existing.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "Project deleted successfully",
		})
	}
}
