package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/dto"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/service"
)

type InvitationHandler struct {
	invitations service.InvitationService
}

func NewInvitationHandler(invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) Send(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	var req dto.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	invitation, err := h.invitations.Send(c.Request.Context(), workspaceID, req.Email, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": dto.ToInvitationResponse(invitation)})
}

func (h *InvitationHandler) Act(c *gin.Context) {
	invitationID, ok := pathID(c, "invitationId")
	if !ok {
		return
	}
	var req dto.ActInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.invitations.Act(c.Request.Context(), invitationID, req.Accept, identity); err != nil {
		respondError(c, err)
		return
	}

	message := "invitation rejected"
	if req.Accept {
		message = "invitation accepted"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *InvitationHandler) Cancel(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "invitationId")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.invitations.Cancel(c.Request.Context(), workspaceID, invitationID, identity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invitation cancelled"})
}
