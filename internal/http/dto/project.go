package dto

import (
	"time"

	"progpath.app/api-server/internal/model"
)

type CreateProjectRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Theme       string  `json:"theme" binding:"required"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type EditProjectRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Theme       string  `json:"theme" binding:"required"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type StarProjectRequest struct {
	Starred *bool `json:"starred" binding:"required"`
}

type ProjectResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Theme       string    `json:"theme"`
	Description *string   `json:"description,omitempty"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	Starred     bool      `json:"starred"`
}

func ToProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Title:       p.Title,
		Theme:       p.Theme,
		Description: p.Description,
		Starred:     p.Starred,
		CreatedAt:   p.CreatedAt,
	}
}

func ToProjectResponses(projects []model.Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = *ToProjectResponse(&projects[i])
	}
	return out
}
