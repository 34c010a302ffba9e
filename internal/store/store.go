package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so the same store code runs
// inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Stores bundles every entity store over one connection source.
type Stores struct {
	users         UserStore
	workspaces    WorkspaceStore
	invitations   InvitationStore
	projects      ProjectStore
	tasks         TaskStore
	comments      CommentStore
	subscriptions SubscriptionStore
}

func New(db DBTX) *Stores {
	return &Stores{
		users:         newUserStore(db),
		workspaces:    newWorkspaceStore(db),
		invitations:   newInvitationStore(db),
		projects:      newProjectStore(db),
		tasks:         newTaskStore(db),
		comments:      newCommentStore(db),
		subscriptions: newSubscriptionStore(db),
	}
}

func (s *Stores) Users() UserStore                 { return s.users }
func (s *Stores) Workspaces() WorkspaceStore       { return s.workspaces }
func (s *Stores) Invitations() InvitationStore     { return s.invitations }
func (s *Stores) Projects() ProjectStore           { return s.projects }
func (s *Stores) Tasks() TaskStore                 { return s.tasks }
func (s *Stores) Comments() CommentStore           { return s.comments }
func (s *Stores) Subscriptions() SubscriptionStore { return s.subscriptions }
