package router

import (
	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/handler"
	"progpath.app/api-server/internal/http/middleware"
)

func AnalyticsRouter(rg *gin.RouterGroup, h *handler.AnalyticsHandler) {
	rg.GET("/home", h.Home)
	rg.GET("/admin/dashboard", middleware.RequireTeamlead(), h.Dashboard)
}
