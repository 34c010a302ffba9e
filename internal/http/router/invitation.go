package router

import (
	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/handler"
)

func InvitationRouter(rg *gin.RouterGroup, h *handler.InvitationHandler) {
	rg.POST("/:invitationId/act", h.Act)
}
