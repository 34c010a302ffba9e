package dto

import (
	"time"

	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/store"
)

type CreateWorkspaceRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Type        string   `json:"type" binding:"required"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Emails      []string `json:"emails,omitempty" binding:"omitempty,dive,email"`
}

type EditWorkspaceRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type SendInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ActInvitationRequest struct {
	Accept bool `json:"accept"`
}

type WorkspaceResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	ID          int64     `json:"id,string"`
	OwnerID     int64     `json:"owner_id,string"`
	Freezed     bool      `json:"freezed"`
}

type InvitationResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
}

type PendingInvitationResponse struct {
	Invitation     InvitationResponse `json:"invitation"`
	WorkspaceTitle string             `json:"workspace_title"`
	AdminUsername  string             `json:"admin_username"`
}

type CollaboratorResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	ID        int64   `json:"id,string"`
}

func ToWorkspaceResponse(ws *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:          ws.ID,
		OwnerID:     ws.OwnerID,
		Title:       ws.Title,
		Type:        string(ws.Type),
		Description: ws.Description,
		Freezed:     ws.Freezed,
		CreatedAt:   ws.CreatedAt,
	}
}

func ToWorkspaceResponses(workspaces []model.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		out[i] = *ToWorkspaceResponse(&workspaces[i])
	}
	return out
}

func ToInvitationResponse(inv *model.Invitation) *InvitationResponse {
	return &InvitationResponse{
		ID:          inv.ID,
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
	}
}

func ToInvitationResponses(invitations []model.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		out[i] = *ToInvitationResponse(&invitations[i])
	}
	return out
}

func ToPendingInvitationResponses(invitations []store.InvitationWithWorkspace) []PendingInvitationResponse {
	out := make([]PendingInvitationResponse, len(invitations))
	for i, inv := range invitations {
		out[i] = PendingInvitationResponse{
			Invitation:     *ToInvitationResponse(&inv.Invitation),
			WorkspaceTitle: inv.WorkspaceTitle,
			AdminUsername:  inv.AdminUsername,
		}
	}
	return out
}

func ToCollaboratorResponses(users []model.User) []CollaboratorResponse {
	out := make([]CollaboratorResponse, len(users))
	for i, u := range users {
		out[i] = CollaboratorResponse{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
		}
	}
	return out
}
