package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/common/id"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/objectstore"
	"progpath.app/api-server/internal/store"
)

type CreateProjectParams struct {
	Title       string
	Theme       string
	Description *string
	WorkspaceID int64
	Identity    Identity
}

type EditProjectParams struct {
	Title       string
	Theme       string
	Description *string
	WorkspaceID int64
	ProjectID   int64
	Identity    Identity
}

type ProjectDetail struct {
	Project *model.Project
	Tasks   []model.Task
}

type ProjectService interface {
	Create(ctx context.Context, params CreateProjectParams) (*model.Project, error)
	Edit(ctx context.Context, params EditProjectParams) (*model.Project, error)
	// Star toggles the starred flag. Any collaborator may star, so only the
	// frozen gate applies.
	Star(ctx context.Context, workspaceID, projectID int64, starred bool) error
	Delete(ctx context.Context, workspaceID, projectID int64, identity Identity) error
	Get(ctx context.Context, workspaceID, projectID int64, query store.TaskQuery) (*ProjectDetail, error)
}

type projectService struct {
	tx        TxRunner
	stores    StoreProvider
	authorize AuthorizeService
	objects   objectstore.ObjectStorage
}

func NewProjectService(tx TxRunner, stores StoreProvider, authorize AuthorizeService, objects objectstore.ObjectStorage) ProjectService {
	return &projectService{
		tx:        tx,
		stores:    stores,
		authorize: authorize,
		objects:   objects,
	}
}

func (s *projectService) Create(ctx context.Context, params CreateProjectParams) (*model.Project, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}

	var created *model.Project
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), params.WorkspaceID, params.Identity.UserID); err != nil {
			return err
		}

		taken, err := stores.Projects().TitleTaken(ctx, params.WorkspaceID, title, 0)
		if err != nil {
			return fmt.Errorf("checking project title: %w", err)
		}
		if taken {
			return apperr.Conflict("project with this name already exists in the workspace")
		}

		project := &model.Project{
			ID:          id.New(),
			WorkspaceID: params.WorkspaceID,
			Title:       title,
			Theme:       params.Theme,
			Description: params.Description,
		}
		if err := stores.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		created = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "project created", "project_id", created.ID, "workspace_id", params.WorkspaceID)
	return created, nil
}

func (s *projectService) Edit(ctx context.Context, params EditProjectParams) (*model.Project, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}

	var updated *model.Project
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), params.WorkspaceID, params.Identity.UserID); err != nil {
			return err
		}

		project, err := getWorkspaceProject(ctx, stores, params.WorkspaceID, params.ProjectID)
		if err != nil {
			return err
		}

		taken, err := stores.Projects().TitleTaken(ctx, params.WorkspaceID, title, project.ID)
		if err != nil {
			return fmt.Errorf("checking project title: %w", err)
		}
		if taken {
			return apperr.Conflict("project with this name already exists in the workspace")
		}

		project.Title = title
		project.Theme = params.Theme
		project.Description = params.Description
		if err := stores.Projects().Update(ctx, project); err != nil {
			return fmt.Errorf("updating project: %w", err)
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) Star(ctx context.Context, workspaceID, projectID int64, starred bool) error {
	return s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), workspaceID); err != nil {
			return err
		}
		if _, err := getWorkspaceProject(ctx, stores, workspaceID, projectID); err != nil {
			return err
		}
		return stores.Projects().SetStarred(ctx, projectID, starred)
	})
}

func (s *projectService) Delete(ctx context.Context, workspaceID, projectID int64, identity Identity) error {
	var attachmentKeys []string

	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID); err != nil {
			return err
		}
		if _, err := getWorkspaceProject(ctx, stores, workspaceID, projectID); err != nil {
			return err
		}

		tasks, err := stores.Tasks().List(ctx, store.TaskQuery{WorkspaceID: workspaceID, ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		for _, task := range tasks {
			for _, att := range task.Attachments {
				attachmentKeys = append(attachmentKeys, att.Key)
			}
			if err := stores.Comments().DeleteByReference(ctx, task.ID); err != nil {
				return fmt.Errorf("deleting task comments: %w", err)
			}
		}

		if err := stores.Tasks().DeleteByProject(ctx, workspaceID, projectID); err != nil {
			return fmt.Errorf("deleting tasks: %w", err)
		}
		if err := stores.Projects().Delete(ctx, projectID); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(attachmentKeys) > 0 {
		if err := s.objects.DeleteMany(ctx, attachmentKeys); err != nil {
			slog.WarnContext(ctx, "failed to delete project attachments",
				"error", err,
				"project_id", projectID,
			)
		}
	}

	slog.InfoContext(ctx, "project deleted", "project_id", projectID, "workspace_id", workspaceID)
	return nil
}

func (s *projectService) Get(ctx context.Context, workspaceID, projectID int64, query store.TaskQuery) (*ProjectDetail, error) {
	project, err := getWorkspaceProject(ctx, s.stores, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	query.WorkspaceID = workspaceID
	query.ProjectID = projectID
	tasks, err := s.stores.Tasks().List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return &ProjectDetail{Project: project, Tasks: tasks}, nil
}

// getWorkspaceProject loads a project and verifies it belongs to the given
// workspace; a mismatch reads the same as absence.
func getWorkspaceProject(ctx context.Context, stores StoreProvider, workspaceID, projectID int64) (*model.Project, error) {
	project, err := stores.Projects().GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if project.WorkspaceID != workspaceID {
		return nil, apperr.NotFound("project not found")
	}
	return project, nil
}
