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
	"progpath.app/api-server/internal/notify"
	"progpath.app/api-server/internal/objectstore"
	"progpath.app/api-server/internal/store"
)

type CreateWorkspaceParams struct {
	Title       string
	Type        model.WorkspaceType
	Description *string
	Emails      []string
	Identity    Identity
}

type EditWorkspaceParams struct {
	Title       string
	Type        model.WorkspaceType
	Description *string
	WorkspaceID int64
	Identity    Identity
}

// WorkspaceOverview is the invitee-facing landing payload: the user's
// memberships plus invitations waiting on them.
type WorkspaceOverview struct {
	Workspaces  []model.Workspace
	Invitations []store.InvitationWithWorkspace
}

type WorkspaceDetail struct {
	Workspace     *model.Workspace
	Collaborators []model.User
	Invitations   []model.Invitation
	Projects      []model.Project
}

type WorkspaceService interface {
	// Create runs the whole admission sequence in one transaction: teamlead
	// capability, workspace quota, collaborator quota for the supplied
	// emails, title uniqueness, then the workspace, its owner membership
	// and the pending invitations. Nothing is persisted when any step
	// fails.
	Create(ctx context.Context, params CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error)
	Overview(ctx context.Context, userID int64) (*WorkspaceOverview, error)
	Get(ctx context.Context, workspaceID int64) (*WorkspaceDetail, error)
	Edit(ctx context.Context, params EditWorkspaceParams) (*model.Workspace, error)
	Delete(ctx context.Context, workspaceID int64, identity Identity) error
	RemoveCollaborator(ctx context.Context, workspaceID, collaboratorID int64, identity Identity) error
}

type workspaceService struct {
	tx        TxRunner
	stores    StoreProvider
	authorize AuthorizeService
	quota     QuotaService
	objects   objectstore.ObjectStorage
	notifier  notify.Notifier
}

func NewWorkspaceService(
	tx TxRunner,
	stores StoreProvider,
	authorize AuthorizeService,
	quota QuotaService,
	objects objectstore.ObjectStorage,
	notifier notify.Notifier,
) WorkspaceService {
	return &workspaceService{
		tx:        tx,
		stores:    stores,
		authorize: authorize,
		quota:     quota,
		objects:   objects,
		notifier:  notifier,
	}
}

func (s *workspaceService) Create(ctx context.Context, params CreateWorkspaceParams) (*model.Workspace, []model.Invitation, error) {
	if err := s.authorize.RequireTeamlead(params.Identity); err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(params.Title)
	if title == "" || params.Type == "" {
		return nil, nil, apperr.Validation("title and type are required")
	}
	if !params.Type.Valid() {
		return nil, nil, apperr.Validation(fmt.Sprintf("invalid workspace type %q", params.Type))
	}

	ownerID := params.Identity.UserID

	var (
		created     *model.Workspace
		invitations []model.Invitation
	)
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if err := s.quota.EnsureCanCreateWorkspace(ctx, stores, ownerID); err != nil {
			return err
		}
		if err := s.quota.EnsureCanAddCollaborators(ctx, stores, ownerID, len(params.Emails)); err != nil {
			return err
		}

		taken, err := stores.Workspaces().TitleTaken(ctx, ownerID, title, 0)
		if err != nil {
			return fmt.Errorf("checking workspace title: %w", err)
		}
		if taken {
			return apperr.Conflict("workspace with this name already exists")
		}

		ws := &model.Workspace{
			ID:          id.New(),
			OwnerID:     ownerID,
			Title:       title,
			Type:        params.Type,
			Description: params.Description,
		}
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}

		// The owner is always a member of their own workspace.
		if err := stores.Workspaces().AddCollaborator(ctx, ws.ID, ownerID); err != nil {
			return fmt.Errorf("adding owner membership: %w", err)
		}

		invitations, err = buildInvitations(ws.ID, params.Emails)
		if err != nil {
			return err
		}
		if len(invitations) > 0 {
			if err := stores.Invitations().CreateMany(ctx, invitations); err != nil {
				return fmt.Errorf("creating invitations: %w", err)
			}
		}

		created = ws
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(params.Emails) > 0 {
		s.notifier.Send(ctx, notify.KindInvitationSent, params.Emails, map[string]string{
			"workspace_title": created.Title,
		})
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", created.ID,
		"owner_id", ownerID,
		"invitations", len(invitations),
	)

	return created, invitations, nil
}

func (s *workspaceService) Overview(ctx context.Context, userID int64) (*WorkspaceOverview, error) {
	user, err := s.stores.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	workspaces, err := s.stores.Workspaces().ListByCollaborator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	invitations, err := s.stores.Invitations().ListPendingByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("listing pending invitations: %w", err)
	}

	return &WorkspaceOverview{
		Workspaces:  workspaces,
		Invitations: invitations,
	}, nil
}

func (s *workspaceService) Get(ctx context.Context, workspaceID int64) (*WorkspaceDetail, error) {
	ws, err := s.stores.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("workspace not found")
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}

	collaborators, err := s.stores.Workspaces().ListCollaborators(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}

	// Accepted invitations are resolved; admins only review pending and
	// rejected ones.
	invitations, err := s.stores.Invitations().ListActionableByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}

	projects, err := s.stores.Projects().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return &WorkspaceDetail{
		Workspace:     ws,
		Collaborators: collaborators,
		Invitations:   invitations,
		Projects:      projects,
	}, nil
}

func (s *workspaceService) Edit(ctx context.Context, params EditWorkspaceParams) (*model.Workspace, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" || params.Type == "" {
		return nil, apperr.Validation("title and type are required")
	}
	if !params.Type.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("invalid workspace type %q", params.Type))
	}

	var updated *model.Workspace
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		ws, err := s.authorize.Authorize(ctx, stores.Workspaces(), params.WorkspaceID, params.Identity.UserID)
		if err != nil {
			return err
		}

		taken, err := stores.Workspaces().TitleTaken(ctx, ws.OwnerID, title, ws.ID)
		if err != nil {
			return fmt.Errorf("checking workspace title: %w", err)
		}
		if taken {
			return apperr.Conflict("workspace with the same name already exists")
		}

		ws.Title = title
		ws.Type = params.Type
		ws.Description = params.Description
		if err := stores.Workspaces().Update(ctx, ws); err != nil {
			return fmt.Errorf("updating workspace: %w", err)
		}
		updated = ws
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *workspaceService) Delete(ctx context.Context, workspaceID int64, identity Identity) error {
	var attachmentKeys []string

	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID); err != nil {
			return err
		}

		tasks, err := stores.Tasks().List(ctx, store.TaskQuery{WorkspaceID: workspaceID})
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

		if err := stores.Tasks().DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("deleting tasks: %w", err)
		}
		if err := stores.Projects().DeleteByWorkspace(ctx, workspaceID); err != nil {
			return fmt.Errorf("deleting projects: %w", err)
		}
		if err := stores.Workspaces().Delete(ctx, workspaceID); err != nil {
			return fmt.Errorf("deleting workspace: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(attachmentKeys) > 0 {
		if err := s.objects.DeleteMany(ctx, attachmentKeys); err != nil {
			slog.WarnContext(ctx, "failed to delete workspace attachments",
				"error", err,
				"workspace_id", workspaceID,
			)
		}
	}

	slog.InfoContext(ctx, "workspace deleted", "workspace_id", workspaceID, "owner_id", identity.UserID)
	return nil
}

func (s *workspaceService) RemoveCollaborator(ctx context.Context, workspaceID, collaboratorID int64, identity Identity) error {
	return s.tx.WithTx(ctx, func(stores StoreProvider) error {
		ws, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID)
		if err != nil {
			return err
		}
		if collaboratorID == ws.OwnerID {
			return apperr.Validation("cannot remove the workspace owner")
		}
		return stores.Workspaces().RemoveCollaborator(ctx, workspaceID, collaboratorID)
	})
}

func buildInvitations(workspaceID int64, emails []string) ([]model.Invitation, error) {
	seen := make(map[string]struct{}, len(emails))
	invitations := make([]model.Invitation, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			return nil, apperr.Validation("invitation email must not be empty")
		}
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return nil, apperr.Conflict(fmt.Sprintf("duplicate invitation email %q", email))
		}
		seen[key] = struct{}{}
		invitations = append(invitations, model.Invitation{
			ID:          id.New(),
			WorkspaceID: workspaceID,
			Email:       email,
			Status:      model.InvitationPending,
		})
	}
	return invitations, nil
}
