package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
)

// Storage is the data-access layer behind the portfolio API. Lookups return
// a nil value and a nil error when the entity does not exist.
//
// Storage methods do not enforce cross-entity rules: DeleteProject leaves join
// rows in place and CreateTag never deduplicates. services.ProjectService
// sequences calls so those rules hold.
type Storage interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateProject(ctx context.Context, project models.Project) (*models.Project, error)
	// UpdateProject replaces the stored fields of project id. ID, CreatedAt
	// and UserID are kept from the existing row.
	UpdateProject(ctx context.Context, id int, project models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id int) error

	GetAllProjects(ctx context.Context) ([]models.ProjectWithTags, error)
	GetProjectByID(ctx context.Context, id int) (*models.ProjectWithTags, error)
	GetProjectsByUserID(ctx context.Context, userID int) ([]models.ProjectWithTags, error)

	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	GetTagByID(ctx context.Context, id int) (*models.Tag, error)
	// GetTagByName matches names case-insensitively.
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	GetAllTags(ctx context.Context) ([]models.Tag, error)

	AddTagToProject(ctx context.Context, projectID, tagID int) (*models.ProjectTag, error)
	RemoveTagsFromProject(ctx context.Context, projectID int) error
	GetProjectTags(ctx context.Context, projectID int) ([]models.Tag, error)

	// LikeProject and UnlikeProject report whether the ledger changed.
	LikeProject(ctx context.Context, projectID int, fingerprint string) (bool, error)
	UnlikeProject(ctx context.Context, projectID int, fingerprint string) (bool, error)
	IsProjectLiked(ctx context.Context, projectID int, fingerprint string) (bool, error)
	GetProjectLikes(ctx context.Context, projectID int) (int, error)
}
