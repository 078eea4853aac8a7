package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Database is the PostgreSQL implementation of Storage. Each repository
// shares the same GORM instance.
type Database struct {
	db             *gorm.DB
	userRepo       *UserRepo
	projectRepo    *ProjectRepo
	tagRepo        *TagRepo
	projectTagRepo *ProjectTagRepo
	likeRepo       *LikeRepo
}

var _ Storage = Database{}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		userRepo:       NewUserRepo(db),
		projectRepo:    NewProjectRepo(db),
		tagRepo:        NewTagRepo(db),
		projectTagRepo: NewProjectTagRepo(db),
		likeRepo:       NewLikeRepo(db),
	}
}

// UseReplicas routes reads to the given replica dialectors.
func UseReplicas(db *gorm.DB, replicas ...gorm.Dialector) error {
	if len(replicas) == 0 {
		return nil
	}
	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
}

// Migrate creates or updates the schema for every model.
func (d Database) Migrate(ctx context.Context) error {
	return d.db.WithContext(ctx).AutoMigrate(models.All()...)
}

func (d Database) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if err := d.userRepo.Add(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d Database) GetUser(ctx context.Context, id int) (*models.User, error) {
	return d.userRepo.FindByID(ctx, id)
}

func (d Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.userRepo.FindByUsername(ctx, username)
}

func (d Database) CreateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	project.ID = 0
	project.CreatedAt = d.db.NowFunc().Truncate(time.Microsecond)
	if err := d.projectRepo.Add(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (d Database) UpdateProject(ctx context.Context, id int, project models.Project) (*models.Project, error) {
	existing, err := d.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFound("project", id)
	}

	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt
	project.UserID = existing.UserID
	if err := d.projectRepo.Update(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (d Database) DeleteProject(ctx context.Context, id int) error {
	return d.projectRepo.Delete(ctx, id)
}

func (d Database) GetAllProjects(ctx context.Context) ([]models.ProjectWithTags, error) {
	projects, err := d.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return d.assemble(ctx, projects)
}

func (d Database) GetProjectByID(ctx context.Context, id int) (*models.ProjectWithTags, error) {
	project, err := d.projectRepo.FindByID(ctx, id)
	if err != nil || project == nil {
		return nil, err
	}
	out, err := d.assemble(ctx, []*models.Project{project})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (d Database) GetProjectsByUserID(ctx context.Context, userID int) ([]models.ProjectWithTags, error) {
	projects, err := d.projectRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return d.assemble(ctx, projects)
}

// assemble joins owners and tags onto projects with one query per table.
func (d Database) assemble(ctx context.Context, projects []*models.Project) ([]models.ProjectWithTags, error) {
	out := make([]models.ProjectWithTags, 0, len(projects))
	if len(projects) == 0 {
		return out, nil
	}

	projectIDs := make([]int, 0, len(projects))
	userIDs := make([]int, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
		userIDs = append(userIDs, p.UserID)
	}

	users, err := d.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	tagsByProject, err := d.projectTagRepo.TagsForProjects(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		owner := models.UnknownOwner
		if u, ok := users[p.UserID]; ok {
			owner = u.Owner()
		}
		tags := tagsByProject[p.ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		out = append(out, models.ProjectWithTags{Project: *p, User: owner, Tags: tags})
	}
	return out, nil
}

func (d Database) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	if err := d.tagRepo.Add(ctx, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (d Database) GetTagByID(ctx context.Context, id int) (*models.Tag, error) {
	return d.tagRepo.FindByID(ctx, id)
}

func (d Database) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	return d.tagRepo.FindByName(ctx, name)
}

func (d Database) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	return d.tagRepo.FindAll(ctx)
}

func (d Database) AddTagToProject(ctx context.Context, projectID, tagID int) (*models.ProjectTag, error) {
	pt := models.ProjectTag{ProjectID: projectID, TagID: tagID}
	if err := d.projectTagRepo.Add(ctx, &pt); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (d Database) RemoveTagsFromProject(ctx context.Context, projectID int) error {
	return d.projectTagRepo.DeleteByProjectID(ctx, projectID)
}

func (d Database) GetProjectTags(ctx context.Context, projectID int) ([]models.Tag, error) {
	byProject, err := d.projectTagRepo.TagsForProjects(ctx, []int{projectID})
	if err != nil {
		return nil, err
	}
	if tags := byProject[projectID]; tags != nil {
		return tags, nil
	}
	return []models.Tag{}, nil
}

func (d Database) LikeProject(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	return d.likeRepo.Add(ctx, projectID, fingerprint)
}

func (d Database) UnlikeProject(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	return d.likeRepo.Delete(ctx, projectID, fingerprint)
}

func (d Database) IsProjectLiked(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	return d.likeRepo.Exists(ctx, projectID, fingerprint)
}

func (d Database) GetProjectLikes(ctx context.Context, projectID int) (int, error) {
	return d.likeRepo.Count(ctx, projectID)
}

// first runs a single-row query and maps gorm.ErrRecordNotFound to a nil row.
func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var row T
	err := q.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
