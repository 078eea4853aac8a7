package models

import (
	"time"

	"gorm.io/datatypes"
)

type PublishedStatus string

const (
	StatusDraft     PublishedStatus = "draft"
	StatusPublished PublishedStatus = "published"
	StatusHidden    PublishedStatus = "hidden"
)

// Valid reports whether s is one of the known statuses. Any status may move
// to any other.
func (s PublishedStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusHidden:
		return true
	}
	return false
}

type SectionDisplay string

const (
	SectionGeneral  SectionDisplay = "general"
	SectionFeatured SectionDisplay = "featured"
	SectionBest     SectionDisplay = "best"
	SectionTop      SectionDisplay = "top"
)

func (s SectionDisplay) Valid() bool {
	switch s {
	case SectionGeneral, SectionFeatured, SectionBest, SectionTop:
		return true
	}
	return false
}

// MaxGalleryImages is the recommended gallery size. The store does not
// enforce it.
const MaxGalleryImages = 6

// Project represents a portfolio entry owned by a single user
type Project struct {
	ID              int                         `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description     string                      `json:"description" db:"description" gorm:"type:text;not null"`
	ImageURL        string                      `json:"imageUrl" db:"image_url" gorm:"type:text;not null"`
	GalleryImages   datatypes.JSONSlice[string] `json:"galleryImages" db:"gallery_images"`
	FigmaURL        *string                     `json:"figmaUrl" db:"figma_url" gorm:"type:text"`
	VideoURL        *string                     `json:"videoUrl" db:"video_url" gorm:"type:text"`
	SectionDisplay  SectionDisplay              `json:"sectionDisplay" db:"section_display" gorm:"type:text;not null;default:general"`
	UserID          int                         `json:"userId" db:"user_id" gorm:"not null;index:idx_project_user_id"`
	Category        string                      `json:"category" db:"category" gorm:"type:text;not null"`
	PublishedStatus PublishedStatus             `json:"publishedStatus" db:"published_status" gorm:"type:text;not null;default:draft"`
	CreatedAt       time.Time                   `json:"createdAt" db:"created_at" gorm:"not null"`
}

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	if p.GalleryImages != nil {
		p.GalleryImages = append(datatypes.JSONSlice[string]{}, p.GalleryImages...)
	}
	return p
}
