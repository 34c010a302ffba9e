package store

import (
	"context"
	"errors"
	"time"

	"progpath.app/api-server/internal/model"
)

var ErrNotFound = errors.New("not found")

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	CountAll(ctx context.Context) (int64, error)
	CountByRoleBetween(ctx context.Context, from, to time.Time) (map[model.Role]int64, error)
	MonthlySignupsBetween(ctx context.Context, from, to time.Time) ([]MonthCount, error)
}

type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	// TitleTaken reports whether the owner already has a workspace with the
	// given title, case-insensitively. excludeID skips one workspace (0 for
	// none) so edits can pass their own record.
	TitleTaken(ctx context.Context, ownerID int64, title string, excludeID int64) (bool, error)
	ListByCollaborator(ctx context.Context, userID int64) ([]model.Workspace, error)
	// AddCollaborator inserts membership if absent; re-adding is a no-op.
	AddCollaborator(ctx context.Context, workspaceID, userID int64) error
	RemoveCollaborator(ctx context.Context, workspaceID, userID int64) error
	ListCollaborators(ctx context.Context, workspaceID int64) ([]model.User, error)
}

type InvitationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Invitation, error)
	CreateMany(ctx context.Context, invitations []model.Invitation) error
	// Resolve transitions a pending invitation to accepted or rejected.
	// Returns ErrNotFound when no pending invitation matches, which covers
	// invitations that were already acted upon.
	Resolve(ctx context.Context, id int64, status model.InvitationStatus) error
	Delete(ctx context.Context, id int64) error
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
	HasPendingForEmail(ctx context.Context, workspaceID int64, email string) (bool, error)
	ListActionableByWorkspace(ctx context.Context, workspaceID int64) ([]model.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]InvitationWithWorkspace, error)
	CountPendingByEmail(ctx context.Context, email string) (int64, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id int64) error
	SetStarred(ctx context.Context, id int64, starred bool) error
	TitleTaken(ctx context.Context, workspaceID int64, title string, excludeID int64) (bool, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Project, error)
	CountByWorkspaces(ctx context.Context, workspaceIDs []int64) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID int64) error
}

type TaskStore interface {
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status model.TaskStatus, completionDate *time.Time) error
	SetPriority(ctx context.Context, id int64, priority model.TaskPriority) error
	TitleTaken(ctx context.Context, workspaceID, projectID int64, title string, excludeID int64) (bool, error)
	List(ctx context.Context, q TaskQuery) ([]model.Task, error)
	CountByStatusForWorkspaces(ctx context.Context, workspaceIDs []int64) (map[model.TaskStatus]int64, error)
	ListDueBetweenForWorkspaces(ctx context.Context, workspaceIDs []int64, from, to time.Time) ([]model.Task, error)
	AddAttachments(ctx context.Context, id int64, attachments []model.Attachment) error
	RemoveAttachment(ctx context.Context, id int64, key string) error
	DeleteByProject(ctx context.Context, workspaceID, projectID int64) error
	DeleteByWorkspace(ctx context.Context, workspaceID int64) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByReference(ctx context.Context, referenceID int64) ([]model.Comment, error)
	DeleteByReference(ctx context.Context, referenceID int64) error
}

type SubscriptionStore interface {
	Create(ctx context.Context, sub *model.Subscription) error
	// GetActiveForUser returns the unexpired subscription with the latest
	// end date, or ErrNotFound.
	GetActiveForUser(ctx context.Context, userID int64, now time.Time) (*model.Subscription, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	MonthlyRevenueBetween(ctx context.Context, from, to time.Time) ([]MonthAmount, error)
	CountByPlanBetween(ctx context.Context, from, to time.Time) ([]PlanCount, error)
}

// TaskQuery is the typed filter for task listings. Zero values are ignored.
type TaskQuery struct {
	Search   string
	Status   model.TaskStatus
	Priority *model.TaskPriority
	DueFrom  *time.Time
	DueTo    *time.Time
	SortBy   string
	SortDesc bool

	WorkspaceID int64
	ProjectID   int64
}

// InvitationWithWorkspace joins a pending invitation with the workspace it
// belongs to, for the invitee-facing listing.
type InvitationWithWorkspace struct {
	WorkspaceTitle string
	AdminUsername  string
	Invitation     model.Invitation
}

type MonthCount struct {
	Month int // 1..12
	Count int64
}

type MonthAmount struct {
	Amount float64
	Month  int
}

type PlanCount struct {
	PlanTitle string
	Count     int64
}
