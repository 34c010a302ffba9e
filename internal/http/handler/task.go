package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/internal/http/dto"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/service"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := pathID(c, "projectId")
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskParams{
		WorkspaceID: workspaceID,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		Labels:      dto.ToLabels(req.Labels),
		Tags:        req.Tags,
		Assignees:   req.Assignees,
		Reporters:   req.Reporters,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		StoryPoints: req.StoryPoints,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskResponse(task)})
}

func (h *TaskHandler) Get(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	detail, err := h.tasks.Get(c.Request.Context(), workspaceID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":     dto.ToTaskResponse(detail.Task),
		"comments": dto.ToCommentResponses(detail.Comments),
	})
}

func (h *TaskHandler) Edit(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.Edit(c.Request.Context(), service.EditTaskParams{
		WorkspaceID: workspaceID,
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		Labels:      dto.ToLabels(req.Labels),
		Tags:        req.Tags,
		Assignees:   req.Assignees,
		Reporters:   req.Reporters,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		StoryPoints: req.StoryPoints,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskResponse(task)})
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), workspaceID, taskID, model.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskResponse(task)})
}

func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.UpdateTaskPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tasks.UpdatePriority(c.Request.Context(), workspaceID, taskID, model.TaskPriority(req.Priority)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "priority updated"})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	identity, _ := middleware.GetIdentity(c)

	if err := h.tasks.Delete(c.Request.Context(), workspaceID, taskID, identity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func (h *TaskHandler) AddAttachments(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.AddAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tasks.AddAttachments(c.Request.Context(), workspaceID, taskID, dto.ToAttachments(req.Attachments)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attachments added"})
}

func (h *TaskHandler) RemoveAttachment(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
		return
	}

	if err := h.tasks.RemoveAttachment(c.Request.Context(), workspaceID, taskID, key); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attachment removed"})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	workspaceID, ok := pathID(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity, _ := middleware.GetIdentity(c)

	comment, err := h.tasks.AddComment(c.Request.Context(), workspaceID, taskID, req.Text, identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": dto.ToCommentResponse(comment)})
}
