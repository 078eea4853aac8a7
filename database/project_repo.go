package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects in insertion order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("id").Find(&projects).Error
	return projects, err
}

// FindByUserID returns the projects owned by userID in insertion order
func (r *ProjectRepo) FindByUserID(ctx context.Context, userID int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil if none exists
func (r *ProjectRepo) FindByID(ctx context.Context, id int) (*models.Project, error) {
	return first[models.Project](r.db.WithContext(ctx), id)
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update writes every column of an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project from the database by id. Join rows are left alone.
func (r *ProjectRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}
