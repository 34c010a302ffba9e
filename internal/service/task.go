package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/common/id"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/objectstore"
	"progpath.app/api-server/internal/store"
)

type CreateTaskParams struct {
	Title       string
	Description *string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	Labels      []model.Label
	Tags        []string
	Assignees   []int64
	Reporters   []int64
	StartDate   *time.Time
	DueDate     *time.Time
	StoryPoints *int
	WorkspaceID int64
	ProjectID   int64
}

type EditTaskParams struct {
	Title       string
	Description *string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	Labels      []model.Label
	Tags        []string
	Assignees   []int64
	Reporters   []int64
	StartDate   *time.Time
	DueDate     *time.Time
	StoryPoints *int
	WorkspaceID int64
	TaskID      int64
}

type TaskDetail struct {
	Task     *model.Task
	Comments []model.Comment
}

type TaskService interface {
	Create(ctx context.Context, params CreateTaskParams) (*model.Task, error)
	Get(ctx context.Context, workspaceID, taskID int64) (*TaskDetail, error)
	// Edit replaces the mutable fields of a task. A status change through
	// Edit follows the same completion stamping as UpdateStatus.
	Edit(ctx context.Context, params EditTaskParams) (*model.Task, error)
	UpdateStatus(ctx context.Context, workspaceID, taskID int64, status model.TaskStatus) (*model.Task, error)
	UpdatePriority(ctx context.Context, workspaceID, taskID int64, priority model.TaskPriority) error
	Delete(ctx context.Context, workspaceID, taskID int64, identity Identity) error
	AddAttachments(ctx context.Context, workspaceID, taskID int64, attachments []model.Attachment) error
	RemoveAttachment(ctx context.Context, workspaceID, taskID int64, key string) error
	AddComment(ctx context.Context, workspaceID, taskID int64, text string, identity Identity) (*model.Comment, error)
}

type taskService struct {
	tx        TxRunner
	stores    StoreProvider
	authorize AuthorizeService
	objects   objectstore.ObjectStorage
	clock     func() time.Time
}

func NewTaskService(tx TxRunner, stores StoreProvider, authorize AuthorizeService, objects objectstore.ObjectStorage, clock func() time.Time) TaskService {
	return &taskService{
		tx:        tx,
		stores:    stores,
		authorize: authorize,
		objects:   objects,
		clock:     clock,
	}
}

func (s *taskService) Create(ctx context.Context, params CreateTaskParams) (*model.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	status := params.Status
	if status == "" {
		status = model.TaskNotStarted
	}
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid task status %q", params.Status))
	}
	if !params.Priority.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid task priority %q", params.Priority))
	}

	var created *model.Task
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), params.WorkspaceID); err != nil {
			return err
		}
		if _, err := getWorkspaceProject(ctx, stores, params.WorkspaceID, params.ProjectID); err != nil {
			return err
		}

		taken, err := stores.Tasks().TitleTaken(ctx, params.WorkspaceID, params.ProjectID, title, 0)
		if err != nil {
			return fmt.Errorf("checking task title: %w", err)
		}
		if taken {
			return apperr.Conflict("task with this name already exists in the project")
		}

		task := &model.Task{
			ID:          id.New(),
			WorkspaceID: params.WorkspaceID,
			ProjectID:   params.ProjectID,
			Title:       title,
			Description: params.Description,
			Status:      status,
			Priority:    params.Priority,
			Labels:      params.Labels,
			Tags:        params.Tags,
			Assignees:   params.Assignees,
			Reporters:   params.Reporters,
			StartDate:   params.StartDate,
			DueDate:     params.DueDate,
			StoryPoints: params.StoryPoints,
		}
		// A task born Done is completed at creation.
		if status == model.TaskDone {
			now := s.clock()
			task.CompletionDate = &now
		}
		if err := stores.Tasks().Create(ctx, task); err != nil {
			return fmt.Errorf("creating task: %w", err)
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "task created", "task_id", created.ID, "project_id", params.ProjectID)
	return created, nil
}

func (s *taskService) Get(ctx context.Context, workspaceID, taskID int64) (*TaskDetail, error) {
	task, err := getWorkspaceTask(ctx, s.stores, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	comments, err := s.stores.Comments().ListByReference(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return &TaskDetail{Task: task, Comments: comments}, nil
}

func (s *taskService) Edit(ctx context.Context, params EditTaskParams) (*model.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if !params.Status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid task status %q", params.Status))
	}
	if !params.Priority.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid task priority %q", params.Priority))
	}

	var updated *model.Task
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), params.WorkspaceID); err != nil {
			return err
		}

		task, err := getWorkspaceTask(ctx, stores, params.WorkspaceID, params.TaskID)
		if err != nil {
			return err
		}

		taken, err := stores.Tasks().TitleTaken(ctx, params.WorkspaceID, task.ProjectID, title, task.ID)
		if err != nil {
			return fmt.Errorf("checking task title: %w", err)
		}
		if taken {
			return apperr.Conflict("task with this name already exists in the project")
		}

		s.applyStatusTransition(task, params.Status)
		task.Title = title
		task.Description = params.Description
		task.Priority = params.Priority
		task.Labels = params.Labels
		task.Tags = params.Tags
		task.Assignees = params.Assignees
		task.Reporters = params.Reporters
		task.StartDate = params.StartDate
		task.DueDate = params.DueDate
		task.StoryPoints = params.StoryPoints

		if err := stores.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, workspaceID, taskID int64, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid task status %q", status))
	}

	var updated *model.Task
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}

		task, err := getWorkspaceTask(ctx, stores, workspaceID, taskID)
		if err != nil {
			return err
		}

		s.applyStatusTransition(task, status)
		if err := stores.Tasks().SetStatus(ctx, taskID, task.Status, task.CompletionDate); err != nil {
			return fmt.Errorf("setting task status: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) UpdatePriority(ctx context.Context, workspaceID, taskID int64, priority model.TaskPriority) error {
	if !priority.Valid() {
		return apperr.Validation(fmt.Sprintf("invalid task priority %q", priority))
	}

	return s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}
		if _, err := getWorkspaceTask(ctx, stores, workspaceID, taskID); err != nil {
			return err
		}
		return stores.Tasks().SetPriority(ctx, taskID, priority)
	})
}

func (s *taskService) Delete(ctx context.Context, workspaceID, taskID int64, identity Identity) error {
	var attachmentKeys []string

	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID); err != nil {
			return err
		}

		task, err := getWorkspaceTask(ctx, stores, workspaceID, taskID)
		if err != nil {
			return err
		}
		for _, att := range task.Attachments {
			attachmentKeys = append(attachmentKeys, att.Key)
		}

		if err := stores.Comments().DeleteByReference(ctx, taskID); err != nil {
			return fmt.Errorf("deleting comments: %w", err)
		}
		if err := stores.Tasks().Delete(ctx, taskID); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(attachmentKeys) > 0 {
		if err := s.objects.DeleteMany(ctx, attachmentKeys); err != nil {
			slog.WarnContext(ctx, "failed to delete task attachments", "error", err, "task_id", taskID)
		}
	}

	slog.InfoContext(ctx, "task deleted", "task_id", taskID, "workspace_id", workspaceID)
	return nil
}

func (s *taskService) AddAttachments(ctx context.Context, workspaceID, taskID int64, attachments []model.Attachment) error {
	if len(attachments) == 0 {
		return apperr.Validation("no attachments supplied")
	}

	return s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}
		if _, err := getWorkspaceTask(ctx, stores, workspaceID, taskID); err != nil {
			return err
		}
		return stores.Tasks().AddAttachments(ctx, taskID, attachments)
	})
}

func (s *taskService) RemoveAttachment(ctx context.Context, workspaceID, taskID int64, key string) error {
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}
		task, err := getWorkspaceTask(ctx, stores, workspaceID, taskID)
		if err != nil {
			return err
		}
		found := false
		for _, att := range task.Attachments {
			if att.Key == key {
				found = true
				break
			}
		}
		if !found {
			return apperr.NotFound("attachment not found")
		}
		return stores.Tasks().RemoveAttachment(ctx, taskID, key)
	})
	if err != nil {
		return err
	}

	if err := s.objects.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete attachment object", "error", err, "key", key)
	}
	return nil
}

func (s *taskService) AddComment(ctx context.Context, workspaceID, taskID int64, text string, identity Identity) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment text is required")
	}

	var created *model.Comment
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}
		if _, err := getWorkspaceTask(ctx, stores, workspaceID, taskID); err != nil {
			return err
		}

		comment := &model.Comment{
			ID:          id.New(),
			ReferenceID: taskID,
			UserID:      identity.UserID,
			Text:        text,
		}
		if err := stores.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
		created = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyStatusTransition moves task to the new status and stamps the
// completion date exactly when the task enters Done from another status. The
// date survives leaving Done, so reopening and finishing again re-stamps it
// while a plain reopen keeps the original.
func (s *taskService) applyStatusTransition(task *model.Task, status model.TaskStatus) {
	if status == model.TaskDone && task.Status != model.TaskDone {
		now := s.clock()
		task.CompletionDate = &now
	}
	task.Status = status
}

func getWorkspaceTask(ctx context.Context, stores StoreProvider, workspaceID, taskID int64) (*model.Task, error) {
	task, err := stores.Tasks().GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	if task.WorkspaceID != workspaceID {
		return nil, apperr.NotFound("task not found")
	}
	return task, nil
}
