package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// Add inserts a new join row
func (r *ProjectTagRepo) Add(ctx context.Context, projectTag *models.ProjectTag) error {
	return r.db.WithContext(ctx).Create(projectTag).Error
}

// DeleteByProjectID removes every join row for a project
func (r *ProjectTagRepo) DeleteByProjectID(ctx context.Context, projectID int) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error
}

type projectTagRow struct {
	ProjectID int
	TagID     int
	Name      string
}

// TagsForProjects resolves tags for each project in join-row order. Join rows
// whose tag is gone drop out of the inner join.
func (r *ProjectTagRepo) TagsForProjects(ctx context.Context, projectIDs []int) (map[int][]models.Tag, error) {
	var rows []projectTagRow
	err := r.db.WithContext(ctx).
		Table("project_tags").
		Select("project_tags.project_id, tags.id AS tag_id, tags.name").
		Joins("JOIN tags ON tags.id = project_tags.tag_id").
		Where("project_tags.project_id IN ?", projectIDs).
		Order("project_tags.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int][]models.Tag, len(projectIDs))
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], models.Tag{ID: row.TagID, Name: row.Name})
	}
	return out, nil
}
