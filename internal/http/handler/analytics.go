package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/dto"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/service"
)

type AnalyticsHandler struct {
	analytics service.AnalyticsService
}

func NewAnalyticsHandler(analytics service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	var query dto.DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, to, err := query.Range()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	summary, err := h.analytics.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": summary})
}

func (h *AnalyticsHandler) Home(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	summary, err := h.analytics.Home(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": summary})
}
