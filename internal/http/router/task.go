package router

import (
	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/handler"
)

// TaskRouter mounts under /workspaces/:workspaceId/tasks.
func TaskRouter(rg *gin.RouterGroup, h *handler.TaskHandler) {
	rg.GET("/:taskId", h.Get)
	rg.PUT("/:taskId", h.Edit)
	rg.PATCH("/:taskId/status", h.UpdateStatus)
	rg.PATCH("/:taskId/priority", h.UpdatePriority)
	rg.DELETE("/:taskId", h.Delete)
	rg.POST("/:taskId/attachments", h.AddAttachments)
	rg.DELETE("/:taskId/attachments/:key", h.RemoveAttachment)
	rg.POST("/:taskId/comments", h.AddComment)
}
