package service

import (
	"context"

	"progpath.app/api-server/internal/store"
)

// StoreProvider hands out entity stores bound to one connection source,
// either the shared pool or an open transaction.
type StoreProvider interface {
	Users() store.UserStore
	Workspaces() store.WorkspaceStore
	Invitations() store.InvitationStore
	Projects() store.ProjectStore
	Tasks() store.TaskStore
	Comments() store.CommentStore
	Subscriptions() store.SubscriptionStore
}

// TxRunner executes fn inside a single database transaction. Check-then-write
// sequences (quota checks, title uniqueness) run through here so concurrent
// requests cannot both pass the same check.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}
