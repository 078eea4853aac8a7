package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/database"
	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/models"
)

// ProjectService runs the multi-step project mutations on top of a Storage.
// Steps are applied in order without a transaction; when a later step fails
// the earlier ones stay applied and a partial-failure error is returned.
type ProjectService struct {
	store  database.Storage
	logger zerolog.Logger
}

func NewProjectService(store database.Storage) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: log.With().Str("service", "projects").Logger(),
	}
}

// ProjectFilter narrows ListProjects. Zero fields match everything.
type ProjectFilter struct {
	Status   models.PublishedStatus
	Section  models.SectionDisplay
	Category string
}

func (f ProjectFilter) match(p models.ProjectWithTags) bool {
	if f.Status != "" && p.PublishedStatus != f.Status {
		return false
	}
	if f.Section != "" && p.SectionDisplay != f.Section {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	return true
}

// LikeState is what the like endpoints report back to a visitor.
type LikeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
	// Changed is set when the call added or removed a ledger row.
	Changed bool `json:"-"`
}

func (s *ProjectService) ListProjects(ctx context.Context, filter ProjectFilter) ([]models.ProjectWithTags, error) {
	projects, err := s.store.GetAllProjects(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}

	out := make([]models.ProjectWithTags, 0, len(projects))
	for _, p := range projects {
		if filter.match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProject returns nil when the project does not exist.
func (s *ProjectService) GetProject(ctx context.Context, id int) (*models.ProjectWithTags, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

func (s *ProjectService) ListProjectsByOwner(ctx context.Context, userID int) ([]models.ProjectWithTags, error) {
	projects, err := s.store.GetProjectsByUserID(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

func (s *ProjectService) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.store.GetAllTags(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

// CreateProject stores the project and attaches tagNames. The project row is
// kept even if attaching a tag fails.
func (s *ProjectService) CreateProject(ctx context.Context, project models.Project, tagNames []string) (*models.ProjectWithTags, error) {
	if project.SectionDisplay == "" {
		project.SectionDisplay = models.SectionGeneral
	}
	if project.PublishedStatus == "" {
		project.PublishedStatus = models.StatusDraft
	}
	if err := validateEnums(project); err != nil {
		return nil, err
	}

	created, err := s.store.CreateProject(ctx, project)
	if err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	if err := s.attachTags(ctx, created.ID, tagNames); err != nil {
		s.logger.Error().Err(err).Int("projectId", created.ID).Msg("Project created but tags could not be attached")
		return nil, errs.NewPartialFailureError("create project", []string{"attach tags"}, err)
	}

	s.logger.Info().Int("projectId", created.ID).Int("userId", created.UserID).Msg("Project created")
	return s.requireProject(ctx, created.ID)
}

// UpdateProject replaces the project's fields and its full tag list. Blank
// status and section keep their current values.
func (s *ProjectService) UpdateProject(ctx context.Context, id int, project models.Project, tagNames []string) (*models.ProjectWithTags, error) {
	existing, err := s.requireProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.SectionDisplay == "" {
		project.SectionDisplay = existing.SectionDisplay
	}
	if project.PublishedStatus == "" {
		project.PublishedStatus = existing.PublishedStatus
	}
	if err := validateEnums(project); err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateProject(ctx, id, project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}

	if err := s.store.RemoveTagsFromProject(ctx, id); err != nil {
		return nil, errs.NewPartialFailureError("update project", []string{"remove tags", "attach tags"}, err)
	}
	if err := s.attachTags(ctx, id, tagNames); err != nil {
		return nil, errs.NewPartialFailureError("update project", []string{"attach tags"}, err)
	}

	s.logger.Info().Int("projectId", id).Msg("Project updated")
	return s.requireProject(ctx, id)
}

// UpdateStatus rewrites publishedStatus only; other fields and tags are kept.
func (s *ProjectService) UpdateStatus(ctx context.Context, id int, status models.PublishedStatus) (*models.ProjectWithTags, error) {
	if !status.Valid() {
		return nil, errs.NewInvalidFieldError("publishedStatus", fmt.Sprintf("%q is not one of draft, published, hidden", status))
	}

	existing, err := s.requireProject(ctx, id)
	if err != nil {
		return nil, err
	}

	project := existing.Project
	project.PublishedStatus = status
	if _, err := s.store.UpdateProject(ctx, id, project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}

	s.logger.Info().Int("projectId", id).Str("status", string(status)).Msg("Project status changed")
	return s.requireProject(ctx, id)
}

// DeleteProject removes the join rows first, then the project row.
func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	if _, err := s.requireProject(ctx, id); err != nil {
		return err
	}

	if err := s.store.RemoveTagsFromProject(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "project tags", err)
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return errs.NewPartialFailureError("delete project", []string{"delete project row"}, err)
	}

	s.logger.Info().Int("projectId", id).Msg("Project deleted")
	return nil
}

func (s *ProjectService) Like(ctx context.Context, id int, fingerprint string) (LikeState, error) {
	if _, err := s.requireProject(ctx, id); err != nil {
		return LikeState{}, err
	}
	changed, err := s.store.LikeProject(ctx, id, fingerprint)
	if err != nil {
		return LikeState{}, errs.NewDatabaseError("like", "project", err)
	}
	state, err := s.likeState(ctx, id, true)
	state.Changed = changed
	return state, err
}

func (s *ProjectService) Unlike(ctx context.Context, id int, fingerprint string) (LikeState, error) {
	if _, err := s.requireProject(ctx, id); err != nil {
		return LikeState{}, err
	}
	changed, err := s.store.UnlikeProject(ctx, id, fingerprint)
	if err != nil {
		return LikeState{}, errs.NewDatabaseError("unlike", "project", err)
	}
	state, err := s.likeState(ctx, id, false)
	state.Changed = changed
	return state, err
}

func (s *ProjectService) LikeStatus(ctx context.Context, id int, fingerprint string) (LikeState, error) {
	if _, err := s.requireProject(ctx, id); err != nil {
		return LikeState{}, err
	}
	liked, err := s.store.IsProjectLiked(ctx, id, fingerprint)
	if err != nil {
		return LikeState{}, errs.NewDatabaseError("find", "project like", err)
	}
	return s.likeState(ctx, id, liked)
}

func (s *ProjectService) likeState(ctx context.Context, id int, liked bool) (LikeState, error) {
	count, err := s.store.GetProjectLikes(ctx, id)
	if err != nil {
		return LikeState{}, errs.NewDatabaseError("count", "project likes", err)
	}
	return LikeState{Liked: liked, LikesCount: count}, nil
}

// attachTags finds or creates each tag by case-insensitive name and adds a
// join row for it.
func (s *ProjectService) attachTags(ctx context.Context, projectID int, tagNames []string) error {
	for _, name := range NormalizeTagNames(tagNames) {
		tag, err := s.store.GetTagByName(ctx, name)
		if err != nil {
			return fmt.Errorf("find tag %q: %w", name, err)
		}
		if tag == nil {
			if tag, err = s.store.CreateTag(ctx, name); err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
		}
		if _, err := s.store.AddTagToProject(ctx, projectID, tag.ID); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}
	return nil
}

func (s *ProjectService) requireProject(ctx context.Context, id int) (*models.ProjectWithTags, error) {
	project, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("project %d", id))
	}
	return project, nil
}

func validateEnums(p models.Project) error {
	if !p.SectionDisplay.Valid() {
		return errs.NewInvalidFieldError("sectionDisplay", fmt.Sprintf("%q is not one of general, featured, best, top", p.SectionDisplay))
	}
	if !p.PublishedStatus.Valid() {
		return errs.NewInvalidFieldError("publishedStatus", fmt.Sprintf("%q is not one of draft, published, hidden", p.PublishedStatus))
	}
	return nil
}
