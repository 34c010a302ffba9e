package service

import (
	"context"
	"errors"
	"fmt"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/internal/model"
	"progpath.app/api-server/internal/store"
)

// Identity is the authenticated caller, supplied by the identity provider on
// every request. The core trusts it.
type Identity struct {
	Role   model.Role
	UserID int64
}

// AuthorizeService gates workspace-scoped mutations on ownership and the
// frozen flag.
type AuthorizeService interface {
	// Authorize admits the workspace owner to an administrative mutation.
	// Forbidden when the workspace does not exist, Unauthorized when userID
	// is not the owner, Unauthorized with a notify hint when frozen.
	Authorize(ctx context.Context, workspaces store.WorkspaceStore, workspaceID, userID int64) (*model.Workspace, error)
	// EnsureMutable admits collaborator-level mutations: the workspace must
	// exist and not be frozen, ownership is not required.
	EnsureMutable(ctx context.Context, workspaces store.WorkspaceStore, workspaceID int64) (*model.Workspace, error)
	// RequireTeamlead checks the caller's global role claim. This is a
	// capability flag, not a workspace-scoped check.
	RequireTeamlead(identity Identity) error
}

type authorizeService struct{}

func NewAuthorizeService() AuthorizeService {
	return &authorizeService{}
}

func (s *authorizeService) Authorize(ctx context.Context, workspaces store.WorkspaceStore, workspaceID, userID int64) (*model.Workspace, error) {
	ws, err := workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Forbidden("workspace does not exist")
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	if ws.OwnerID != userID {
		return nil, apperr.Unauthorized("not the admin of this workspace")
	}
	if ws.Freezed {
		return nil, apperr.Frozen("workspace is temporarily freezed")
	}
	return ws, nil
}

func (s *authorizeService) EnsureMutable(ctx context.Context, workspaces store.WorkspaceStore, workspaceID int64) (*model.Workspace, error) {
	ws, err := workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Forbidden("workspace does not exist")
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	if ws.Freezed {
		return nil, apperr.Frozen("workspace is temporarily freezed")
	}
	return ws, nil
}

func (s *authorizeService) RequireTeamlead(identity Identity) error {
	if identity.Role != model.RoleTeamlead {
		return apperr.Unauthorized("not a teamlead")
	}
	return nil
}
