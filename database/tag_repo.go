package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags ordered by id
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

func (r *TagRepo) FindByID(ctx context.Context, id int) (*models.Tag, error) {
	return first[models.Tag](r.db.WithContext(ctx), id)
}

// FindByName matches case-insensitively; the oldest tag wins on duplicates
func (r *TagRepo) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return first[models.Tag](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).Order("id"))
}

// Add inserts a new tag into the database
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}
