package router

import (
	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/handler"
	"progpath.app/api-server/internal/http/middleware"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler, ih *handler.InvitationHandler) {
	rg.GET("", h.Overview)
	rg.POST("", middleware.RequireTeamlead(), h.Create)
	rg.GET("/:workspaceId", h.Get)
	rg.PUT("/:workspaceId", h.Edit)
	rg.DELETE("/:workspaceId", h.Delete)
	rg.DELETE("/:workspaceId/collaborators/:collaboratorId", h.RemoveCollaborator)

	rg.POST("/:workspaceId/invitations", ih.Send)
	rg.DELETE("/:workspaceId/invitations/:invitationId", ih.Cancel)
}
