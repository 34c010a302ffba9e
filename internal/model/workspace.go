package model

import "time"

type WorkspaceType string

const (
	WorkspaceTypeEngineering WorkspaceType = "engineering"
	WorkspaceTypeBusiness    WorkspaceType = "business"
	WorkspaceTypeSales       WorkspaceType = "sales"
	WorkspaceTypeProject     WorkspaceType = "project"
	WorkspaceTypeEducation   WorkspaceType = "education"
)

func (t WorkspaceType) Valid() bool {
	switch t {
	case WorkspaceTypeEngineering, WorkspaceTypeBusiness, WorkspaceTypeSales,
		WorkspaceTypeProject, WorkspaceTypeEducation:
		return true
	}
	return false
}

// Workspace is the top-level collaboration container. The owner holds
// exclusive administrative rights; collaborators (including the owner) hold
// shared membership. A frozen workspace rejects every mutation, reads only.
type Workspace struct {
	CreatedAt   time.Time     `json:"created_at"`
	Title       string        `json:"title"`
	Type        WorkspaceType `json:"type"`
	Description *string       `json:"description,omitempty"`
	ID          int64         `json:"id,string"`
	OwnerID     int64         `json:"owner_id,string"`
	Freezed     bool          `json:"freezed"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Invitation is a pending offer of collaborator membership, owned by its
// workspace.
type Invitation struct {
	CreatedAt   time.Time        `json:"created_at"`
	Email       string           `json:"email"`
	Status      InvitationStatus `json:"status"`
	ID          int64            `json:"id,string"`
	WorkspaceID int64            `json:"workspace_id,string"`
}
