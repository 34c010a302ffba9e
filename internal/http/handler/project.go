package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/dto"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/service"
)

type ProjectHandler struct {
	projects  service.ProjectService
	analytics service.AnalyticsService
}

func NewProjectHandler(projects service.ProjectService, analytics service.AnalyticsService) *ProjectHandler {
	return &ProjectHandler{projects: projects, analytics: analytics}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	project, err := h.projects.Create(c.Request.Context(), service.CreateProjectParams{
		WorkspaceID: workspaceID,
		Title:       req.Title,
		Theme:       req.Theme,
		Description: req.Description,
		Identity:    identity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": dto.ToProjectResponse(project)})
}

func (h *ProjectHandler) Edit(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	var req dto.EditProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	project, err := h.projects.Edit(c.Request.Context(), service.EditProjectParams{
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       req.Title,
		Theme:       req.Theme,
		Description: req.Description,
		Identity:    identity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectResponse(project)})
}

func (h *ProjectHandler) Star(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	var req dto.StarProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.Star(c.Request.Context(), workspaceID, projectID, *req.Starred); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project updated"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.projects.Delete(c.Request.Context(), workspaceID, projectID, identity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	var query dto.TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	taskQuery, err := query.ToTaskQuery()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date filter"})
		return
	}

	detail, err := h.projects.Get(c.Request.Context(), workspaceID, projectID, taskQuery)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": dto.ToProjectResponse(detail.Project),
		"tasks":   dto.ToTaskResponses(detail.Tasks),
	})
}

func (h *ProjectHandler) Burndown(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}

	points, err := h.analytics.ComputeBurndown(c.Request.Context(), workspaceID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"burnout_data": dto.ToBurndownResponses(points)})
}
