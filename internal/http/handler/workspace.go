package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/dto"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

type WorkspaceHandler struct {
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	ws, invitations, err := h.workspaces.Create(c.Request.Context(), service.CreateWorkspaceParams{
		Title:       req.Title,
		Type:        model.WorkspaceType(req.Type),
		Description: req.Description,
		Emails:      req.Emails,
		Identity:    identity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"workspace":   dto.ToWorkspaceResponse(ws),
		"invitations": dto.ToInvitationResponses(invitations),
	})
}

func (h *WorkspaceHandler) Overview(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	overview, err := h.workspaces.Overview(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspaces":  dto.ToWorkspaceResponses(overview.Workspaces),
		"invitations": dto.ToPendingInvitationResponses(overview.Invitations),
	})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}

	detail, err := h.workspaces.Get(c.Request.Context(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace":     dto.ToWorkspaceResponse(detail.Workspace),
		"collaborators": dto.ToCollaboratorResponses(detail.Collaborators),
		"invitations":   dto.ToInvitationResponses(detail.Invitations),
		"projects":      dto.ToProjectResponses(detail.Projects),
	})
}

func (h *WorkspaceHandler) Edit(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	var req dto.EditWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	ws, err := h.workspaces.Edit(c.Request.Context(), service.EditWorkspaceParams{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		Type:        model.WorkspaceType(req.Type),
		Description: req.Description,
		Identity:    identity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": dto.ToWorkspaceResponse(ws)})
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.workspaces.Delete(c.Request.Context(), workspaceID, identity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "workspace deleted"})
}

func (h *WorkspaceHandler) RemoveCollaborator(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	collaboratorID, ok := pathID(c, "collaboratorId")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.workspaces.RemoveCollaborator(c.Request.Context(), workspaceID, collaboratorID, identity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "collaborator removed"})
}
