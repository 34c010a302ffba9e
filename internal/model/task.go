package model

import "time"

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskStuck      TaskStatus = "Stuck"
	TaskDone       TaskStatus = "Done"
)

// TaskStatuses lists every status in home status-map order.
var TaskStatuses = []TaskStatus{TaskNotStarted, TaskInProgress, TaskStuck, TaskDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskStuck, TaskDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityNone   TaskPriority = ""
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Label struct {
	Text  string `json:"text"`
	Theme string `json:"theme"`
}

// Attachment references a file in object storage by key; the bytes live
// outside the record store.
type Attachment struct {
	OriginalName string `json:"original_name"`
	Key          string `json:"key"`
	ContentType  string `json:"content_type"`
}

// Task carries the status lifecycle. CompletionDate is stamped exactly when
// a task transitions into Done and is never cleared on leaving Done.
type Task struct {
	CreatedAt      time.Time    `json:"created_at"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	CompletionDate *time.Time   `json:"completion_date,omitempty"`
	Title          string       `json:"title"`
	Description    *string      `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	Labels         []Label      `json:"labels"`
	Tags           []string     `json:"tags"`
	Attachments    []Attachment `json:"attachments"`
	Assignees      []int64      `json:"assignees"`
	Reporters      []int64      `json:"reporters"`
	StoryPoints    *int         `json:"story_points,omitempty"`
	ID             int64        `json:"id,string"`
	WorkspaceID    int64        `json:"workspace_id,string"`
	ProjectID      int64        `json:"project_id,string"`
}

// Comment is a task discussion entry, cascade-deleted with its task.
type Comment struct {
	CreatedAt   time.Time `json:"created_at"`
	Text        string    `json:"text"`
	ID          int64     `json:"id,string"`
	ReferenceID int64     `json:"reference_id,string"`
	UserID      int64     `json:"user_id,string"`
}
