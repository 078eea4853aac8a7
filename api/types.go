package api

import (
	"github.com/rpupo63/designer-portfolio-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	tagHandler     tagHandler
	likeHandler    likeHandler
	authHandler    authHandler
	uploadHandler  *uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectRequest is the body of project create and update calls
type ProjectRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required,max=10000"`
	ImageURL        string   `json:"imageUrl" validate:"required,url"`
	GalleryImages   []string `json:"galleryImages" validate:"max=6,dive,url"`
	FigmaURL        string   `json:"figmaUrl" validate:"omitempty,url"`
	VideoURL        string   `json:"videoUrl" validate:"omitempty,url"`
	SectionDisplay  string   `json:"sectionDisplay" validate:"omitempty,oneof=general featured best top"`
	Category        string   `json:"category" validate:"required,max=100"`
	PublishedStatus string   `json:"publishedStatus" validate:"omitempty,oneof=draft published hidden"`
	Tags            []string `json:"tags" validate:"max=20,dive,max=50"`
}

func (p ProjectRequest) toProject(ownerID int) models.Project {
	project := models.Project{
		Title:           p.Title,
		Description:     p.Description,
		ImageURL:        p.ImageURL,
		GalleryImages:   append([]string{}, p.GalleryImages...),
		FigmaURL:        optional(p.FigmaURL),
		VideoURL:        optional(p.VideoURL),
		SectionDisplay:  models.SectionDisplay(p.SectionDisplay),
		UserID:          ownerID,
		Category:        p.Category,
		PublishedStatus: models.PublishedStatus(p.PublishedStatus),
	}
	return project
}

// StatusRequest is the body of the status-only update
type StatusRequest struct {
	PublishedStatus string `json:"publishedStatus" validate:"required,oneof=draft published hidden"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Name      string `json:"name" validate:"required,max=100"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by login and register
type SessionResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
