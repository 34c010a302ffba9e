package router

import (
	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/handler"
)

// ProjectRouter mounts under /workspaces/:workspaceId/projects.
func ProjectRouter(rg *gin.RouterGroup, h *handler.ProjectHandler, th *handler.TaskHandler) {
	rg.POST("", h.Create)
	rg.GET("/:projectId", h.Get)
	rg.PUT("/:projectId", h.Edit)
	rg.PATCH("/:projectId/star", h.Star)
	rg.DELETE("/:projectId", h.Delete)
	rg.GET("/:projectId/burndown", h.Burndown)

	rg.POST("/:projectId/tasks", th.Create)
}
