package service

import (
	"context"
	"fmt"

	"progpath.app/api-server/common/apperr"
	"progpath.app/api-server/core/config"
)

// QuotaService enforces the free-tier limits on workspace and collaborator
// counts. It is a pure predicate layer: it never writes, callers run it
// inside the same transaction as the write it gates.
type QuotaService interface {
	EnsureCanCreateWorkspace(ctx context.Context, stores StoreProvider, userID int64) error
	// EnsureCanAddCollaborators gates the collaborator set supplied at
	// workspace creation time.
	EnsureCanAddCollaborators(ctx context.Context, stores StoreProvider, userID int64, incomingCount int) error
	// EnsureCanSendInvitations gates post-creation invitation sends. It
	// compares the workspace's total historical invitation count, not its
	// active collaborators, so repeated free-tier invitation bursts stay
	// capped.
	EnsureCanSendInvitations(ctx context.Context, stores StoreProvider, workspaceID, userID int64) error
}

type quotaService struct {
	oracle MembershipOracle
	cfg    config.QuotaConfig
}

func NewQuotaService(cfg config.QuotaConfig, oracle MembershipOracle) QuotaService {
	return &quotaService{cfg: cfg, oracle: oracle}
}

func (s *quotaService) EnsureCanCreateWorkspace(ctx context.Context, stores StoreProvider, userID int64) error {
	count, err := stores.Workspaces().CountByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting owned workspaces: %w", err)
	}
	if count < int64(s.cfg.FreeWorkspaceLimit) {
		return nil
	}

	premium, err := s.oracle.HasActivePremium(ctx, stores.Subscriptions(), userID)
	if err != nil {
		return err
	}
	if !premium {
		return apperr.QuotaExceeded("you have reached the limit for free workspaces, upgrade to a premium plan to create additional workspaces")
	}
	return nil
}

func (s *quotaService) EnsureCanAddCollaborators(ctx context.Context, stores StoreProvider, userID int64, incomingCount int) error {
	if incomingCount <= s.cfg.FreeCollaboratorLimit {
		return nil
	}

	premium, err := s.oracle.HasActivePremium(ctx, stores.Subscriptions(), userID)
	if err != nil {
		return err
	}
	if !premium {
		return apperr.QuotaExceeded(fmt.Sprintf("you cannot add more than %d collaborators, upgrade to a premium plan to add more", s.cfg.FreeCollaboratorLimit))
	}
	return nil
}

func (s *quotaService) EnsureCanSendInvitations(ctx context.Context, stores StoreProvider, workspaceID, userID int64) error {
	count, err := stores.Invitations().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("counting invitations: %w", err)
	}
	if count < int64(s.cfg.FreeCollaboratorLimit) {
		return nil
	}

	premium, err := s.oracle.HasActivePremium(ctx, stores.Subscriptions(), userID)
	if err != nil {
		return err
	}
	if !premium {
		return apperr.QuotaExceeded("you have reached the limit for free collaborators, upgrade to a premium plan to add more")
	}
	return nil
}
