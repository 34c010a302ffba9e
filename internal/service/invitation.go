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
	"progpath.app/api-server/internal/store"
)

type InvitationService interface {
	// Send invites a new collaborator to the workspace. Admin only, gated by
	// the free-tier invitation quota; a duplicate pending invitation for the
	// same email is a conflict.
	Send(ctx context.Context, workspaceID int64, email string, identity Identity) (*model.Invitation, error)
	// Act resolves a pending invitation as the invitee: accept grants
	// membership, reject only records the refusal. Acting on an invitation
	// that was already resolved or cancelled is a not-found.
	Act(ctx context.Context, invitationID int64, accept bool, identity Identity) error
	// Cancel withdraws a pending or rejected invitation. Accepted
	// invitations are history and cannot be cancelled.
	Cancel(ctx context.Context, workspaceID, invitationID int64, identity Identity) error
}

type invitationService struct {
	tx        TxRunner
	authorize AuthorizeService
	quota     QuotaService
	notifier  notify.Notifier
}

func NewInvitationService(tx TxRunner, authorize AuthorizeService, quota QuotaService, notifier notify.Notifier) InvitationService {
	return &invitationService{
		tx:        tx,
		authorize: authorize,
		quota:     quota,
		notifier:  notifier,
	}
}

func (s *invitationService) Send(ctx context.Context, workspaceID int64, email string, identity Identity) (*model.Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	var (
		created        *model.Invitation
		workspaceTitle string
	)
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		ws, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID)
		if err != nil {
			return err
		}

		if err := s.quota.EnsureCanSendInvitations(ctx, stores, workspaceID, identity.UserID); err != nil {
			return err
		}

		pending, err := stores.Invitations().HasPendingForEmail(ctx, workspaceID, email)
		if err != nil {
			return fmt.Errorf("checking pending invitation: %w", err)
		}
		if pending {
			return apperr.Conflict("an invitation for this email is already pending")
		}

		invitation := model.Invitation{
			ID:          id.New(),
			WorkspaceID: workspaceID,
			Email:       email,
			Status:      model.InvitationPending,
		}
		if err := stores.Invitations().CreateMany(ctx, []model.Invitation{invitation}); err != nil {
			return fmt.Errorf("creating invitation: %w", err)
		}

		created = &invitation
		workspaceTitle = ws.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Send(ctx, notify.KindInvitationSent, []string{email}, map[string]string{
		"workspace_title": workspaceTitle,
	})

	slog.InfoContext(ctx, "invitation sent",
		"invitation_id", created.ID,
		"workspace_id", workspaceID,
	)
	return created, nil
}

func (s *invitationService) Act(ctx context.Context, invitationID int64, accept bool, identity Identity) error {
	return s.tx.WithTx(ctx, func(stores StoreProvider) error {
		invitation, err := stores.Invitations().GetByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("invitation not found")
			}
			return fmt.Errorf("getting invitation: %w", err)
		}

		user, err := stores.Users().GetByID(ctx, identity.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("user not found")
			}
			return fmt.Errorf("getting user: %w", err)
		}
		if !strings.EqualFold(user.Email, invitation.Email) {
			return apperr.Unauthorized("this invitation is not addressed to you")
		}

		// A frozen workspace rejects membership changes too, but the invitee
		// does not need to own it.
		if _, err := s.authorize.EnsureMutable(ctx, stores.Workspaces(), invitation.WorkspaceID); err != nil {
			return err
		}

		status := model.InvitationRejected
		if accept {
			status = model.InvitationAccepted
		}
		if err := stores.Invitations().Resolve(ctx, invitationID, status); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("invitation is no longer pending")
			}
			return fmt.Errorf("resolving invitation: %w", err)
		}

		if accept {
			if err := stores.Workspaces().AddCollaborator(ctx, invitation.WorkspaceID, identity.UserID); err != nil {
				return fmt.Errorf("adding collaborator: %w", err)
			}
		}

		slog.InfoContext(ctx, "invitation resolved",
			"invitation_id", invitationID,
			"workspace_id", invitation.WorkspaceID,
			"status", status,
		)
		return nil
	})
}

func (s *invitationService) Cancel(ctx context.Context, workspaceID, invitationID int64, identity Identity) error {
	var email string

	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := s.authorize.Authorize(ctx, stores.Workspaces(), workspaceID, identity.UserID); err != nil {
			return err
		}

		invitation, err := stores.Invitations().GetByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("invitation not found")
			}
			return fmt.Errorf("getting invitation: %w", err)
		}
		if invitation.WorkspaceID != workspaceID {
			return apperr.NotFound("invitation not found")
		}
		if invitation.Status == model.InvitationAccepted {
			return apperr.Conflict("an accepted invitation cannot be cancelled")
		}

		if err := stores.Invitations().Delete(ctx, invitationID); err != nil {
			return fmt.Errorf("deleting invitation: %w", err)
		}
		email = invitation.Email
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Send(ctx, notify.KindInvitationCancelled, []string{email}, nil)
	slog.InfoContext(ctx, "invitation cancelled", "invitation_id", invitationID, "workspace_id", workspaceID)
	return nil
}
